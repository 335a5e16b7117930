package models

// ContentType константы типов контента, к которым относится автофлаг.
const (
	ContentTypeProfile = "profile"
	ContentTypePost    = "post"
	ContentTypeComment = "comment"
	ContentTypeMedia   = "media"
)

// FlagType константы категорий нарушений.
const (
	FlagTypeToxicity   = "toxicity"
	FlagTypeHateSpeech = "hate_speech"
	FlagTypeSpam       = "spam"
	FlagTypeNudity     = "nudity"
	FlagTypeCopyright  = "copyright"
)

// AutoFlagStatus константы статусов автофлагов.
const (
	AutoFlagStatusPending   = "pending"
	AutoFlagStatusReviewed  = "reviewed"
	AutoFlagStatusDismissed = "dismissed"
)

// ReportStatus константы статусов жалоб.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewing = "reviewing"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
	ReportStatusAppealed  = "appealed"
)

// ReportType константы типов жалоб.
const (
	ReportTypeUser      = "user"
	ReportTypeContent   = "content"
	ReportTypeTechnical = "technical"
)

// ActionType константы типов санкций.
const (
	ActionTypeWarn          = "warn"
	ActionTypeSuspend       = "suspend"
	ActionTypeBan           = "ban"
	ActionTypeDeleteContent = "delete_content"
	ActionTypeHideContent   = "hide_content"
	ActionTypeResetPassword = "reset_password"
)

// TargetType константы объектов санкций.
const (
	TargetTypeUser    = "user"
	TargetTypeContent = "content"
	TargetTypeComment = "comment"
)

// AppealStatus константы статусов апелляций.
const (
	AppealStatusPending   = "pending"
	AppealStatusReviewing = "reviewing"
	AppealStatusApproved  = "approved"
	AppealStatusRejected  = "rejected"
)

// Типы записей журнала модерации, не совпадающие с ActionType.
const (
	LogActionCreateAutoFlag     = "create_auto_flag"
	LogActionUpdateAutoFlag     = "update_auto_flag"
	LogActionPromoteAutoFlag    = "promote_auto_flag"
	LogActionCreateReport       = "create_report"
	LogActionUpdateReportStatus = "update_report_status"
	LogActionCreateAppeal       = "create_appeal"
	LogActionUpdateAppeal       = "update_appeal"
)

// Объекты журнала модерации.
const (
	LogTargetAutoFlag = "auto_flag"
	LogTargetReport   = "report"
	LogTargetAppeal   = "appeal"
)

// StatusFilterAll отключает фильтр по статусу в списках.
const StatusFilterAll = "all"

// ValidContentTypes список валидных типов контента
var ValidContentTypes = map[string]struct{}{
	ContentTypeProfile: {},
	ContentTypePost:    {},
	ContentTypeComment: {},
	ContentTypeMedia:   {},
}

// ValidFlagTypes список валидных категорий флагов
var ValidFlagTypes = map[string]struct{}{
	FlagTypeToxicity:   {},
	FlagTypeHateSpeech: {},
	FlagTypeSpam:       {},
	FlagTypeNudity:     {},
	FlagTypeCopyright:  {},
}

// ValidReportStatuses список валидных статусов жалоб
var ValidReportStatuses = map[string]struct{}{
	ReportStatusPending:   {},
	ReportStatusReviewing: {},
	ReportStatusResolved:  {},
	ReportStatusDismissed: {},
	ReportStatusAppealed:  {},
}

// ValidAppealStatuses список валидных статусов апелляций
var ValidAppealStatuses = map[string]struct{}{
	AppealStatusPending:   {},
	AppealStatusReviewing: {},
	AppealStatusApproved:  {},
	AppealStatusRejected:  {},
}

// ValidAutoFlagStatuses список валидных статусов автофлагов
var ValidAutoFlagStatuses = map[string]struct{}{
	AutoFlagStatusPending:   {},
	AutoFlagStatusReviewed:  {},
	AutoFlagStatusDismissed: {},
}

// reportTransitions допустимые ручные переходы статуса жалобы.
// appealed достигается только созданием апелляции, resolved/dismissed терминальны.
var reportTransitions = map[string][]string{
	ReportStatusPending:   {ReportStatusReviewing, ReportStatusResolved, ReportStatusDismissed},
	ReportStatusReviewing: {ReportStatusResolved, ReportStatusDismissed},
	ReportStatusAppealed:  {ReportStatusReviewing, ReportStatusResolved, ReportStatusDismissed},
}

var appealTransitions = map[string][]string{
	AppealStatusPending:   {AppealStatusReviewing, AppealStatusApproved, AppealStatusRejected},
	AppealStatusReviewing: {AppealStatusApproved, AppealStatusRejected},
}

var autoFlagTransitions = map[string][]string{
	AutoFlagStatusPending: {AutoFlagStatusReviewed, AutoFlagStatusDismissed},
}

// CanTransitionReport сообщает, может ли модератор перевести жалобу из from в to.
func CanTransitionReport(from, to string) bool {
	return allowed(reportTransitions, from, to)
}

// CanTransitionAppeal сообщает, допустим ли переход статуса апелляции.
func CanTransitionAppeal(from, to string) bool {
	return allowed(appealTransitions, from, to)
}

// CanTransitionAutoFlag сообщает, допустим ли переход статуса автофлага.
func CanTransitionAutoFlag(from, to string) bool {
	return allowed(autoFlagTransitions, from, to)
}

func allowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
