package model

import "time"

// 运行状态
const (
	RunStatusProcessing = "processing"
	RunStatusSuccess    = "success"
	RunStatusFailed     = "failed"
)

// 运行类型
const (
	RunKindReport = "report"
	RunKindGoal   = "goal"
)

// RunLog 一次流水线运行的记录
type RunLog struct {
	ID               string     `json:"id"`
	Kind             string     `json:"kind"`
	InputFile        string     `json:"inputFile"`
	SupplementalFile string     `json:"supplementalFile,omitempty"`
	Status           string     `json:"status"`
	TotalRecords     int        `json:"totalRecords"`
	TotalStores      int        `json:"totalStores"`
	RetainedStores   int        `json:"retainedStores"`
	CurrentPeriod    string     `json:"currentPeriod"`
	TablesWritten    int        `json:"tablesWritten"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}
