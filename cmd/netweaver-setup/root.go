package main

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vtex/netweaver-setup/actionlog"
	"github.com/vtex/netweaver-setup/config"
	"github.com/vtex/netweaver-setup/installer"
	"github.com/vtex/netweaver-setup/metrics"
	"github.com/vtex/netweaver-setup/platform"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netweaver-setup",
		Short: "Install the Unity Netcode Weaver and its reference assemblies",
		Long: `netweaver-setup downloads a NetcodePatcher release, unpacks it into
~/NetcodeWeaver and fills its deps folder with the reference assemblies of the
given NuGet packages, picking for each package the build that best suits the
target framework.

Every flag may also be given as NETWEAVER_<FLAG> or, inside GitHub Actions,
as the action input of the same name.`,
		Example: `  netweaver-setup --netcode-weaver-version 2.5.1 --target-framework netstandard2.1 \
    --deps-packages '[{"id": "Unity.Netcode.Runtime", "version": "1.5.2"}]'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}

	logrus.SetFormatter(actionlog.NewFormatter(actionlog.InActions()))
	if level, err := logrus.ParseLevel(v.GetString(config.KeyLogLevel)); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.WithError(err).Warn("Unknown log level, keeping info")
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	inputs, err := cfg.Inputs()
	if err != nil {
		return err
	}

	steps, err := platform.ForOS(runtime.GOOS)
	if err != nil {
		return err
	}

	recorder := metrics.New()
	inst := installer.New(cfg.InstallerOptions(), steps, installer.Dependencies{
		Outputs: actionlog.NewOutputFile(cfg.OutputFile),
		Metrics: recorder,
	})

	logrus.WithFields(logrus.Fields{
		"version":  inputs.WeaverVersion.String(),
		"target":   inputs.TargetFramework.Raw(),
		"packages": len(inputs.Packages),
	}).Info("Installing NetcodeWeaver")
	_, installErr := inst.InstallIfNecessary(cmd.Context(), inputs)

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			logrus.WithError(err).Warn("Failed to write metrics")
		}
	}
	return errors.WithStack(installErr)
}
