package domain

import "errors"

// Доменные ошибки сервиса
var (
	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectNotFound возвращается когда проект не найден
	ErrProjectNotFound = errors.New("project not found")

	// ErrApplicationNotFound возвращается когда заявка не найдена в проекте
	ErrApplicationNotFound = errors.New("application not found")

	// ErrNotificationNotFound возвращается когда уведомления нет в почтовом ящике пользователя
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrForbidden возвращается когда действие разрешено только создателю проекта
	ErrForbidden = errors.New("not authorized to perform this action")

	// ErrAlreadyApplied возвращается при повторной заявке на тот же проект
	ErrAlreadyApplied = errors.New("already applied to this project")

	// ErrOwnProject возвращается при попытке подать заявку на собственный проект
	ErrOwnProject = errors.New("cannot apply to your own project")

	// ErrProjectNotOpen возвращается при заявке на проект, который не принимает участников
	ErrProjectNotOpen = errors.New("project is not open for applications")

	// ErrProjectFull возвращается когда все места в проекте уже заняты
	ErrProjectFull = errors.New("project has reached its member limit")

	// ErrInvalidStatus возвращается при недопустимом статусе заявки
	ErrInvalidStatus = errors.New("invalid status. Must be 'accepted' or 'rejected'")

	// ErrInvalidProjectStatus возвращается при недопустимом статусе проекта
	ErrInvalidProjectStatus = errors.New("invalid project status")

	// ErrApplicationFinalized возвращается при попытке изменить уже принятую или отклоненную заявку
	ErrApplicationFinalized = errors.New("application has already been decided")

	// ErrEmailTaken возвращается при регистрации с уже занятым email
	ErrEmailTaken = errors.New("email already registered")

	// ErrWeakPassword возвращается когда пароль слишком короткий
	ErrWeakPassword = errors.New("password must be at least 8 characters long")

	// ErrInvalidCredentials возвращается при неверной паре email/пароль
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorCode представляет машинно-читаемый код ошибки API
type ErrorCode string

// Коды ошибок API
const (
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeForbidden            ErrorCode = "FORBIDDEN"
	CodeAlreadyApplied       ErrorCode = "ALREADY_APPLIED"
	CodeOwnProject           ErrorCode = "OWN_PROJECT"
	CodeProjectNotOpen       ErrorCode = "PROJECT_NOT_OPEN"
	CodeProjectFull          ErrorCode = "PROJECT_FULL"
	CodeInvalidStatus        ErrorCode = "INVALID_STATUS"
	CodeApplicationFinalized ErrorCode = "APPLICATION_FINALIZED"
	CodeEmailTaken           ErrorCode = "EMAIL_TAKEN"
	CodeInvalidCredentials   ErrorCode = "INVALID_CREDENTIALS"
	CodeBadRequest           ErrorCode = "BAD_REQUEST"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrAlreadyApplied):
		return CodeAlreadyApplied
	case errors.Is(err, ErrOwnProject):
		return CodeOwnProject
	case errors.Is(err, ErrProjectNotOpen):
		return CodeProjectNotOpen
	case errors.Is(err, ErrProjectFull):
		return CodeProjectFull
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidProjectStatus):
		return CodeInvalidStatus
	case errors.Is(err, ErrApplicationFinalized):
		return CodeApplicationFinalized
	case errors.Is(err, ErrEmailTaken):
		return CodeEmailTaken
	case errors.Is(err, ErrWeakPassword):
		return CodeBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	case IsNotFound(err):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// IsNotFound сообщает, относится ли ошибка к семейству "не найдено"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrApplicationNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}
