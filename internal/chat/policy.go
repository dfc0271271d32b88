package chat

import "github.com/thereayou/cofoundry/internal/models"

type Reason string

const (
	ReasonOK              Reason = "ok"
	ReasonUnverifiedEmail Reason = "unverified_email"
	ReasonRoomArchived    Reason = "room_archived"
)

type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
}

// EvaluateAccess решает, может ли профиль писать в комнату прямо сейчас.
// Чистая функция без состояния: вызывающие не должны кэшировать вердикт,
// комната и профиль могут измениться между попытками.
// Порядок проверок фиксирован: архив блокирует даже верифицированных.
func EvaluateAccess(profile *models.Profile, room *models.Room) Verdict {
	if room.IsArchived {
		return Verdict{Allowed: false, Reason: ReasonRoomArchived}
	}
	if !profile.EmailVerified {
		return Verdict{Allowed: false, Reason: ReasonUnverifiedEmail}
	}
	return Verdict{Allowed: true, Reason: ReasonOK}
}
