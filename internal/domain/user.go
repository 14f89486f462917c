package domain

import "time"

// User представляет зарегистрированного студента
type User struct {
	UserID         string     `json:"_id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	UserName       string     `json:"userName"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	School         string     `json:"school,omitempty"`
	FieldOfStudy   string     `json:"fieldOfStudy,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// SkippedProjects заполняется только в собственном профиле (GET /api/users/me)
	SkippedProjects []string `json:"skippedProjects,omitempty"`
}

// UserSummary представляет краткие данные пользователя для отображения в карточках
type UserSummary struct {
	UserID         string `json:"_id"`
	UserName       string `json:"userName"`
	Email          string `json:"email,omitempty"` // Заполняется только для создателя проекта
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Summary возвращает краткое представление пользователя
func (u *User) Summary() UserSummary {
	return UserSummary{
		UserID:         u.UserID,
		UserName:       u.UserName,
		ProfilePicture: u.ProfilePicture,
	}
}

// ProfileUpdate содержит изменяемые поля профиля (nil означает "не менять")
type ProfileUpdate struct {
	UserName       *string
	ProfilePicture *string
	DateOfBirth    *time.Time
	School         *string
	FieldOfStudy   *string
	Bio            *string
}

// Apply применяет изменения к пользователю
func (p ProfileUpdate) Apply(u *User) {
	if p.UserName != nil {
		u.UserName = *p.UserName
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = p.DateOfBirth
	}
	if p.School != nil {
		u.School = *p.School
	}
	if p.FieldOfStudy != nil {
		u.FieldOfStudy = *p.FieldOfStudy
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
}
