package common

const (
	KeyProjectPlan      = "project_plan:%d"
	KeyTaskIDGeneration = "%s-%d"
)

const (
	KeyLogHookSendAlert = "send_alert"
)

const (
	AlertTypeGenerationFailed = "generation_failed"

	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)
