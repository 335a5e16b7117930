package service

import (
	"strings"

	"github.com/google/uuid"
)

// Identity пользователь, извлечённый из access-токена.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Authenticated сообщает, удалось ли определить пользователя.
func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// Actor инициатор операции очереди модерации вместе с данными запроса для журнала.
type Actor struct {
	Identity
	IPAddress string
	UserAgent string
}

// AuthorizationPolicy решает, является ли пользователь модератором.
type AuthorizationPolicy interface {
	IsAdmin(id Identity) bool
}

// AllowListPolicy статический список из одного администратора: по user id или email.
// Пустое значение соответствующую ветку отключает. Временная замена полноценной ролевой модели.
type AllowListPolicy struct {
	AdminUserID uuid.UUID
	AdminEmail  string
}

// NewAllowListPolicy создаёт политику из конфигурации. Невалидный user id игнорируется.
func NewAllowListPolicy(adminUserID, adminEmail string) AllowListPolicy {
	p := AllowListPolicy{AdminEmail: strings.TrimSpace(adminEmail)}
	if id, err := uuid.Parse(strings.TrimSpace(adminUserID)); err == nil {
		p.AdminUserID = id
	}
	return p
}

func (p AllowListPolicy) IsAdmin(id Identity) bool {
	if !id.Authenticated() {
		return false
	}
	if p.AdminUserID != uuid.Nil && id.UserID == p.AdminUserID {
		return true
	}
	return p.AdminEmail != "" && id.Email != "" && strings.EqualFold(id.Email, p.AdminEmail)
}
