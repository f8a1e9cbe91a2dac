// Package verification описывает жизненный цикл проверки анкеты репетитора.
//
// pending -> verified | rejected. pending - начальное состояние,
// verified и rejected - конечные.
package verification

import (
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tutora24/internal/models"
)

// ErrInvalidTransition - переход между статусами запрещён.
var ErrInvalidTransition = errors.New("invalid verification transition")

// Transition проверяет допустимость перехода from -> to.
func Transition(from, to models.VerificationStatus) error {
	const op = "verification.Transition"
	if from == models.StatusPending && (to == models.StatusVerified || to == models.StatusRejected) {
		return nil
	}
	return fmt.Errorf("%s: %q -> %q: %w", op, from, to, ErrInvalidTransition)
}

// VisibleInDirectory сообщает, показывается ли анкета в каталоге.
func VisibleInDirectory(status models.VerificationStatus) bool {
	return status == models.StatusVerified
}

// BannerKind - вид баннера в личном кабинете.
type BannerKind string

const (
	BannerAdvisory BannerKind = "advisory"
	BannerVerified BannerKind = "verified"
	BannerDeclined BannerKind = "declined"
)

// Banner - блок состояния проверки в личном кабинете.
type Banner struct {
	Kind    BannerKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	// CanEdit разрешает редактирование анкеты (фото и т.п.).
	CanEdit bool `json:"can_edit"`
}

// DashboardView возвращает баннер для статуса. Отклонённая анкета видит
// только уведомление об отказе без возможности редактирования.
func DashboardView(status models.VerificationStatus) Banner {
	switch status {
	case models.StatusVerified:
		return Banner{
			Kind:    BannerVerified,
			Title:   "Verified",
			Message: "Your account has been verified",
			CanEdit: true,
		}
	case models.StatusRejected:
		return Banner{
			Kind:    BannerDeclined,
			Title:   "Application declined",
			Message: "Unfortunately we could not approve your application. Contact support if you believe this is a mistake.",
		}
	default:
		return Banner{
			Kind:  BannerAdvisory,
			Title: "Verification Pending",
			Message: "Your account is under review. We're verifying your qualifications and credentials. " +
				"This usually takes 2-3 business days. You'll receive an email once your account is verified.",
			CanEdit: true,
		}
	}
}
