package domain

import "time"

// ProjectStatus представляет статус проекта
type ProjectStatus string

// Возможные статусы проекта
const (
	ProjectOpen       ProjectStatus = "open"        // Проект показывается в ленте и принимает заявки
	ProjectInProgress ProjectStatus = "in-progress" // Команда собрана, идет работа
	ProjectCompleted  ProjectStatus = "completed"   // Проект завершен
	ProjectOnHold     ProjectStatus = "on-hold"     // Проект приостановлен
)

// Valid проверяет, что статус входит в допустимый набор
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOpen, ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// Project представляет проект, опубликованный пользователем (создателем)
type Project struct {
	ProjectID      string        `json:"_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category,omitempty"`
	ProjectType    string        `json:"projectType,omitempty"`
	Location       string        `json:"location,omitempty"`
	SkillsRequired []string      `json:"skillsRequired"`
	MaxMembers     int           `json:"maxMembers"`
	Creator        UserSummary   `json:"creator"`
	Status         ProjectStatus `json:"status"`
	Applications   []Application `json:"applications"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// IsCreator проверяет, является ли пользователь создателем проекта
func (p *Project) IsCreator(userID string) bool {
	return p.Creator.UserID == userID
}

// IsOpen возвращает true если проект принимает заявки
func (p *Project) IsOpen() bool {
	return p.Status == ProjectOpen
}

// ApplicationByID ищет заявку внутри проекта
func (p *Project) ApplicationByID(applicationID string) (*Application, bool) {
	for i := range p.Applications {
		if p.Applications[i].ApplicationID == applicationID {
			return &p.Applications[i], true
		}
	}
	return nil, false
}

// HasApplicant проверяет, подавал ли пользователь заявку на проект
func (p *Project) HasApplicant(userID string) bool {
	for _, app := range p.Applications {
		if app.Applicant.UserID == userID {
			return true
		}
	}
	return false
}

// AcceptedCount возвращает количество принятых участников
func (p *Project) AcceptedCount() int {
	n := 0
	for _, app := range p.Applications {
		if app.Status == ApplicationAccepted {
			n++
		}
	}
	return n
}

// IsFull проверяет, достигнут ли лимит участников (0 означает "без лимита")
func (p *Project) IsFull() bool {
	return p.MaxMembers > 0 && p.AcceptedCount() >= p.MaxMembers
}

// ProjectBrief представляет сокращенную информацию о проекте (используется в списке заявок пользователя)
type ProjectBrief struct {
	ProjectID   string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	ProjectType string      `json:"projectType,omitempty"`
	Creator     UserSummary `json:"creator"`
}

// ProjectRef представляет ссылку на проект из уведомления
type ProjectRef struct {
	ProjectID string `json:"_id"`
	Title     string `json:"title"`
}

// ProjectUpdate содержит изменяемые поля проекта (nil означает "не менять")
type ProjectUpdate struct {
	Title          *string
	Description    *string
	Category       *string
	ProjectType    *string
	Location       *string
	SkillsRequired []string
	MaxMembers     *int
	Status         *ProjectStatus
}

// Apply применяет изменения к проекту
func (u ProjectUpdate) Apply(p *Project) error {
	if u.Status != nil && !u.Status.Valid() {
		return ErrInvalidProjectStatus
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.ProjectType != nil {
		p.ProjectType = *u.ProjectType
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.SkillsRequired != nil {
		p.SkillsRequired = u.SkillsRequired
	}
	if u.MaxMembers != nil {
		p.MaxMembers = *u.MaxMembers
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	return nil
}
