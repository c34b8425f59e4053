package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// MaxRedoCount 重做配额上限，达到后 requestRedo 一律拒绝，无管理员豁免通道
const MaxRedoCount = 3

const (
	MinScore = 0
	MaxScore = 100
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)
