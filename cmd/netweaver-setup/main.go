// Command netweaver-setup installs the Unity Netcode Weaver and the reference
// assemblies it needs to patch a project.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("Installation failed")
		stop()
		os.Exit(1)
	}
}
