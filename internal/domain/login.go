package domain

// LoginUser представляет тело запроса на вход. Оба поля необязательны,
// поэтому читать их следует через методы Email и Password.
type LoginUser struct {
	EmailValue    *string `json:"email"`
	PasswordValue *string `json:"password"`
}

// Email возвращает e-mail и признак его наличия
func (l LoginUser) Email() (string, bool) {
	if l.EmailValue == nil {
		return "", false
	}
	return *l.EmailValue, true
}

// Password возвращает пароль и признак его наличия
func (l LoginUser) Password() (string, bool) {
	if l.PasswordValue == nil {
		return "", false
	}
	return *l.PasswordValue, true
}
