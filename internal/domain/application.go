package domain

import "time"

// ApplicationStatus представляет статус заявки на участие
type ApplicationStatus string

// Возможные статусы заявки
const (
	ApplicationPending  ApplicationStatus = "pending"  // Ожидает решения создателя
	ApplicationAccepted ApplicationStatus = "accepted" // Принята (финальный статус)
	ApplicationRejected ApplicationStatus = "rejected" // Отклонена (финальный статус)
)

// IsTerminal возвращает true для финальных статусов
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// ParseDecision проверяет статус, который создатель может выставить заявке
func ParseDecision(raw string) (ApplicationStatus, error) {
	switch s := ApplicationStatus(raw); s {
	case ApplicationAccepted, ApplicationRejected:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Application представляет заявку пользователя на участие в проекте
type Application struct {
	ApplicationID string            `json:"_id"`
	ProjectID     string            `json:"-"`
	Applicant     UserSummary       `json:"user"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     time.Time         `json:"appliedAt"`
}

// ApplicationBrief представляет заявку без данных заявителя
type ApplicationBrief struct {
	ApplicationID string            `json:"_id"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     time.Time         `json:"appliedAt"`
}

// UserApplication связывает заявку пользователя с проектом, на который она подана
type UserApplication struct {
	Project     ProjectBrief     `json:"project"`
	Application ApplicationBrief `json:"application"`
}

// ProjectApplications представляет список заявок проекта для его создателя
type ProjectApplications struct {
	ProjectID    string        `json:"_id"`
	Title        string        `json:"title"`
	Applications []Application `json:"applications"`
}
