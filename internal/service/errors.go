package service

import "errors"

var ErrAnalysisRunning = errors.New("analysis already running")
