package cache

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryCache(t *testing.T) {
	Convey("Memory cache", t, func() {
		subject := NewMemory()
		duration := time.Minute

		Convey("It should miss unknown keys", func() {
			var result []string
			hit, err := subject.Get("unknown", &result)
			So(err, ShouldBeNil)
			So(hit, ShouldBeFalse)
		})

		Convey("It should return what was set", func() {
			So(subject.Set("key", []string{"net6.0"}, duration), ShouldBeNil)

			var result []string
			hit, err := subject.Get("key", &result)
			So(err, ShouldBeNil)
			So(hit, ShouldBeTrue)
			So(result, ShouldResemble, []string{"net6.0"})
		})

		Convey("GetOrSet should only fetch once", func() {
			calls := 0
			fetch := func() (interface{}, error) {
				calls++
				return 42, nil
			}

			var first, second int
			So(subject.GetOrSet("answer", &first, duration, fetch), ShouldBeNil)
			So(subject.GetOrSet("answer", &second, duration, fetch), ShouldBeNil)
			So(first, ShouldEqual, 42)
			So(second, ShouldEqual, 42)
			So(calls, ShouldEqual, 1)
		})

		Convey("GetOrSet should not cache failures", func() {
			expectedErr := errors.New("I am expected")
			var result int
			err := subject.GetOrSet("failing", &result, duration, func() (interface{}, error) {
				return nil, expectedErr
			})
			So(err, ShouldEqual, expectedErr)

			hit, err := subject.Get("failing", &result)
			So(err, ShouldBeNil)
			So(hit, ShouldBeFalse)
		})

		Convey("It should reject mismatched result types", func() {
			So(subject.Set("typed", "a string", duration), ShouldBeNil)
			var result int
			_, err := subject.Get("typed", &result)
			So(err, ShouldNotBeNil)
		})

		Convey("It should reject empty keys", func() {
			So(subject.Set("", 1, duration), ShouldEqual, ErrEmptyKey)
		})
	})

	Convey("Memory cache without expiration", t, func() {
		subject := NewMemoryWith(NoExpiration, 0)
		So(subject.Set("listing", []string{"lib"}, NoExpiration), ShouldBeNil)

		var result []string
		hit, err := subject.Get("listing", &result)
		So(err, ShouldBeNil)
		So(hit, ShouldBeTrue)
		So(result, ShouldResemble, []string{"lib"})
	})
}
