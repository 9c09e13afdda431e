package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/internal/domain/studio"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

// StudioCaller talks to a studio served by another process.
type StudioCaller interface {
	Mint(ctx context.Context, uri string) error
	BatchMint(ctx context.Context, uri string, quantity int) error
	SetBaseURI(ctx context.Context, uri string) error
	State(ctx context.Context, kind string) (studio.FormState, error)
	Reset(ctx context.Context, kind string) error
	Toasts(ctx context.Context) ([]notification.Toast, error)
	ToggleTheme(ctx context.Context) (string, error)
	Close()
}

type studioCaller struct {
	client *rpc.Client
}

func NewStudioCaller(client *rpc.Client) *studioCaller {
	return &studioCaller{client: client}
}

func (c *studioCaller) Mint(ctx context.Context, uri string) error {
	return c.call(ctx, nil, "mint", uri)
}

func (c *studioCaller) BatchMint(ctx context.Context, uri string, quantity int) error {
	return c.call(ctx, nil, "batchMint", uri, quantity)
}

func (c *studioCaller) SetBaseURI(ctx context.Context, uri string) error {
	return c.call(ctx, nil, "setBaseURI", uri)
}

func (c *studioCaller) State(ctx context.Context, kind string) (studio.FormState, error) {
	var result studio.FormState
	if err := c.call(ctx, &result, "state", kind); err != nil {
		return studio.FormState{}, err
	}

	return result, nil
}

func (c *studioCaller) Reset(ctx context.Context, kind string) error {
	return c.call(ctx, nil, "reset", kind)
}

func (c *studioCaller) Toasts(ctx context.Context) ([]notification.Toast, error) {
	var result []notification.Toast
	if err := c.call(ctx, &result, "toasts"); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *studioCaller) ToggleTheme(ctx context.Context) (string, error) {
	var result string
	if err := c.call(ctx, &result, "toggleTheme"); err != nil {
		return "", err
	}

	return result, nil
}

func (c *studioCaller) Close() {
	c.client.Close()
}

// call restores the errorx code sent by the server so that callers can
// compare remote errors the same way as local ones.
func (c *studioCaller) call(ctx context.Context, result any, funcName string, args ...any) error {
	err := c.client.CallContext(ctx, result, c.fname(ctx, funcName), args...)
	if err == nil {
		return nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() >= int(errorx.Unknown.Code) {
		return errorx.New(errorx.Code(rpcErr.ErrorCode()), "%s", rpcErr.Error())
	}

	return err
}

func (c *studioCaller) fname(ctx context.Context, funcName string) string {
	return fmt.Sprintf("%s_%s", xcontext.Configs(ctx).RPCServer.RPCName, funcName)
}
