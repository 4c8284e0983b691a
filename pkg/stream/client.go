package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	channerics "github.com/niceyeti/channerics/channels"
	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 8192
	pingPeriod     = 2 * time.Second
	// Pongs missing for this long mean the peer is gone.
	pongWait = pingPeriod * 4
)

// ControlRequest is what clients send to drive their engine.
type ControlRequest struct {
	Type   string             `json:"type"`
	Config map[string]float64 `json:"config,omitempty"`
}

// client is one websocket subscriber of a single engine.
type client struct {
	engine   string
	ws       *websocket.Conn
	frames   <-chan Frame
	controls Controls
	logger   log.Logger
}

// sync runs the read, ping and publish loops until any of them stops,
// then closes the connection. It returns nil when the peer disconnects normally.
func (cli *client) sync(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer cancel()
		return cli.readMessages(groupCtx)
	})
	group.Go(func() error {
		defer cancel()
		return cli.pingPong(groupCtx)
	})
	group.Go(func() error {
		defer cancel()
		return cli.publish(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		cli.close()
		return nil
	})

	return group.Wait()
}

// readMessages forwards control requests to the engine. Errors returned by
// websocket reads are permanent, so any of them ends the client.
func (cli *client) readMessages(ctx context.Context) error {
	cli.ws.SetReadLimit(maxMessageSize)
	_ = cli.ws.SetReadDeadline(time.Now().Add(pongWait))
	cli.ws.SetPongHandler(func(string) error {
		return cli.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cli.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || isClosure(err) {
				return nil
			}
			if isError(err) {
				return fmt.Errorf("read failed: %w", err)
			}
			return nil
		}

		if err := cli.forward(ctx, data); err != nil {
			cli.logger.Errorf("stream %s: %v", cli.engine, err)
		}
	}
}

func (cli *client) forward(ctx context.Context, data []byte) error {
	var req ControlRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("bad control request: %w", err)
	}
	msg, err := simulation.ControlMessage(req.Type, req.Config)
	if err != nil {
		return err
	}
	return cli.controls.Tell(ctx, cli.engine, msg)
}

var ErrPingFailed = errors.New("ping failed")

func (cli *client) pingPong(ctx context.Context) error {
	for range channerics.NewTicker(ctx.Done(), pingPeriod) {
		if err := cli.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrPingFailed, err)
		}
	}
	return nil
}

func (cli *client) publish(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-cli.frames:
			// unsubscribed
			if !ok {
				return nil
			}
			if err := cli.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to set deadline: %w", err)
			}
			if err := cli.ws.WriteJSON(frame); err != nil {
				if ctx.Err() != nil || !isError(err) {
					return nil
				}
				return fmt.Errorf("publish failed: %w", err)
			}
		}
	}
}

func (cli *client) close() {
	_ = cli.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	_ = cli.ws.Close()
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
