package chat

import "errors"

var (
	ErrEmptyContent  = errors.New("message content is empty")
	ErrDuplicateID   = errors.New("duplicate message id in room")
	ErrPersistFailed = errors.New("message persist failed")
)

// AccessError возвращается при запрете отправки. Причина сохраняется,
// чтобы UI мог показать конкретное сообщение, а не общую ошибку.
type AccessError struct {
	Reason Reason
}

func (e *AccessError) Error() string {
	return "send not allowed: " + string(e.Reason)
}
