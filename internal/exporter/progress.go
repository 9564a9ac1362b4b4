package exporter

// ProgressEvent 导出进度事件
type ProgressEvent struct {
	Percent int
	Sheet   string // 刚写完的工作表
}

func reportProgress(progress func(ProgressEvent), done, total int, sheet string) {
	if progress == nil || total <= 0 {
		return
	}
	percent := done * 100 / total
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Sheet:   sheet,
	})
}
