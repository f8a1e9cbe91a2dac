package verification

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

func TestTransition(t *testing.T) {
	convey.Convey("Given the verification lifecycle", t, func() {
		convey.Convey("When the application is pending", func() {
			convey.Convey("Then it can be verified", func() {
				convey.So(Transition(models.StatusPending, models.StatusVerified), convey.ShouldBeNil)
			})
			convey.Convey("And it can be rejected", func() {
				convey.So(Transition(models.StatusPending, models.StatusRejected), convey.ShouldBeNil)
			})
			convey.Convey("But it cannot stay pending through a transition", func() {
				err := Transition(models.StatusPending, models.StatusPending)
				convey.So(errors.Is(err, ErrInvalidTransition), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the application reached a terminal state", func() {
			terminal := []models.VerificationStatus{models.StatusVerified, models.StatusRejected}
			all := []models.VerificationStatus{models.StatusPending, models.StatusVerified, models.StatusRejected}

			convey.Convey("Then every transition is rejected", func() {
				for _, from := range terminal {
					for _, to := range all {
						err := Transition(from, to)
						convey.So(errors.Is(err, ErrInvalidTransition), convey.ShouldBeTrue)
					}
				}
			})
		})

		convey.Convey("When the status is unknown", func() {
			err := Transition("archived", models.StatusVerified)
			convey.So(errors.Is(err, ErrInvalidTransition), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "archived")
		})
	})
}

func TestVisibleInDirectory(t *testing.T) {
	convey.Convey("Only verified tutors are listed", t, func() {
		convey.So(VisibleInDirectory(models.StatusVerified), convey.ShouldBeTrue)
		convey.So(VisibleInDirectory(models.StatusPending), convey.ShouldBeFalse)
		convey.So(VisibleInDirectory(models.StatusRejected), convey.ShouldBeFalse)
		convey.So(VisibleInDirectory(""), convey.ShouldBeFalse)
	})
}

func TestDashboardView(t *testing.T) {
	convey.Convey("Given a tutor dashboard", t, func() {
		convey.Convey("Pending shows the advisory banner", func() {
			b := DashboardView(models.StatusPending)
			convey.So(b.Kind, convey.ShouldEqual, BannerAdvisory)
			convey.So(b.Title, convey.ShouldEqual, "Verification Pending")
			convey.So(b.CanEdit, convey.ShouldBeTrue)
		})
		convey.Convey("Verified shows the verified badge", func() {
			b := DashboardView(models.StatusVerified)
			convey.So(b.Kind, convey.ShouldEqual, BannerVerified)
			convey.So(b.Title, convey.ShouldEqual, "Verified")
		})
		convey.Convey("Rejected shows a terminal declined notice without editing", func() {
			b := DashboardView(models.StatusRejected)
			convey.So(b.Kind, convey.ShouldEqual, BannerDeclined)
			convey.So(b.Title, convey.ShouldEqual, "Application declined")
			convey.So(b.CanEdit, convey.ShouldBeFalse)
		})
	})
}
