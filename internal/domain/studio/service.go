package studio

import (
	"context"

	"github.com/questx-lab/mintstudio/internal/common"
	"github.com/questx-lab/mintstudio/internal/domain/lifecycle"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/pkg/enum"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

type ThemeToggler interface {
	IsDark() bool
	Toggle() error
}

// Service is registered on the JSON-RPC server. Method names become
// <namespace>_mint, <namespace>_batchMint and so on.
type Service struct {
	studio *Studio
	board  *notification.Board
	theme  ThemeToggler
}

func NewService(studio *Studio, board *notification.Board, theme ThemeToggler) *Service {
	return &Service{studio: studio, board: board, theme: theme}
}

func (s *Service) Mint(_ context.Context, uri string) error {
	return s.observe("mint", s.studio.Mint(s.studio.rootCtx, uri))
}

func (s *Service) BatchMint(_ context.Context, uri string, quantity int) error {
	return s.observe("batchMint", s.studio.BatchMint(s.studio.rootCtx, uri, quantity))
}

func (s *Service) SetBaseURI(_ context.Context, uri string) error {
	return s.observe("setBaseURI", s.studio.SetBaseURI(s.studio.rootCtx, uri))
}

func (s *Service) State(_ context.Context, kind string) (FormState, error) {
	k, err := parseKind(kind)
	if err != nil {
		return FormState{}, s.observe("state", err)
	}

	state, err := s.studio.State(k)
	return state, s.observe("state", err)
}

func (s *Service) Reset(_ context.Context, kind string) error {
	k, err := parseKind(kind)
	if err != nil {
		return s.observe("reset", err)
	}

	return s.observe("reset", s.studio.Reset(k))
}

func (s *Service) Toasts(_ context.Context) []notification.Toast {
	s.observe("toasts", nil)
	return s.board.Toasts()
}

func (s *Service) Theme(_ context.Context) string {
	s.observe("theme", nil)
	return themeName(s.theme.IsDark())
}

func (s *Service) ToggleTheme(_ context.Context) (string, error) {
	if err := s.theme.Toggle(); err != nil {
		xcontext.Logger(s.studio.rootCtx).Errorf("Cannot toggle theme: %v", err)
		return "", s.observe("toggleTheme", errorx.Unknown)
	}

	return themeName(s.theme.IsDark()), s.observe("toggleTheme", nil)
}

func (s *Service) observe(method string, err error) error {
	result := "ok"
	if err != nil {
		result = "error"
	}

	common.PromCounters[common.RPCRequestTotal].WithLabelValues(method, result).Inc()
	return err
}

func parseKind(kind string) (lifecycle.OperationKind, error) {
	k, err := enum.ToEnum[lifecycle.OperationKind](kind)
	if err != nil {
		return "", errorx.New(errorx.BadRequest, "Unknown form %s", kind)
	}

	return k, nil
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
