package tui

import (
	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/usecase"
)

type progressMsg struct {
	ev usecase.SuiteEvent
}

type suiteDoneMsg struct {
	suite domain.SuiteResult
	id    string
	err   error
}
