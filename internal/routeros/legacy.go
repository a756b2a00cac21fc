package routeros

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/HerbHall/wispgate/pkg/models"
	ros "github.com/go-routeros/routeros/v3"
	"go.uber.org/zap"
)

// Compile-time interface guard.
var _ Client = (*legacyClient)(nil)

// legacyClient executes commands over the binary sentence protocol. Each
// client owns one live session; Close must run on every exit path.
type legacyClient struct {
	conn   *ros.Client
	logger *zap.Logger
}

type dialResult struct {
	client *ros.Client
	err    error
}

// dialLegacy opens a session to the record's native API port. Port 8729 is
// the device's TLS service; certificates are self-signed on stock firmware,
// so verification is skipped with the protocol version pinned.
func dialLegacy(ctx context.Context, r *models.Router, logger *zap.Logger) (*legacyClient, error) {
	addr := net.JoinHostPort(r.Host, strconv.Itoa(r.Port))

	ch := make(chan dialResult, 1)
	go func() {
		var (
			conn *ros.Client
			err  error
		)
		if r.Port == legacyTLSPort {
			tlsCfg := &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: true, //nolint:gosec // devices ship self-signed certs
			}
			conn, err = ros.DialTLSTimeout(addr, r.User, r.Password, tlsCfg, connectTimeout)
		} else {
			conn, err = ros.DialTimeout(addr, r.User, r.Password, connectTimeout)
		}
		ch <- dialResult{client: conn, err: err}
	}()

	select {
	case <-ctx.Done():
		// Reap the session if the dial completes after cancellation.
		go func() {
			if res := <-ch; res.client != nil {
				res.client.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, &ProtocolError{
				Message: fmt.Sprintf("connect %s: %v", addr, res.err),
				Err:     res.err,
			}
		}
		logger.Debug("legacy session opened", zap.String("addr", addr))
		return &legacyClient{conn: res.client, logger: logger}, nil
	}
}

// Do executes one command. Read commands translate the device's
// empty-result trap into an empty entity list; every other fault
// propagates as a ProtocolError.
func (c *legacyClient) Do(ctx context.Context, req Request) (*Reply, error) {
	rep, err := c.run(ctx, legacyWords(req))
	if err != nil {
		return legacyFault(req, err)
	}
	return legacyReply(rep, req.IsRead()), nil
}

// legacyFault decides what a failed command means. A trap on a read that
// merely says nothing matched is a successful empty result, not a fault.
func legacyFault(req Request, err error) (*Reply, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if req.IsRead() && isEmptyResult(err) {
		return &Reply{Status: http.StatusOK, Entities: []Entity{}}, nil
	}
	return nil, wrapLegacyErr(err)
}

// run executes the sentence, honoring context cancellation by closing the
// session, which unblocks the in-flight call.
func (c *legacyClient) run(ctx context.Context, words []string) (*ros.Reply, error) {
	type result struct {
		rep *ros.Reply
		err error
	}
	ch := make(chan result, 1)
	go func() {
		rep, err := c.conn.RunArgs(words)
		ch <- result{rep: rep, err: err}
	}()

	select {
	case <-ctx.Done():
		c.conn.Close()
		return nil, ctx.Err()
	case res := <-ch:
		return res.rep, res.err
	}
}

func (c *legacyClient) List(ctx context.Context, path string, query map[string]string) ([]Entity, error) {
	rep, err := c.Do(ctx, Request{
		Path:   strings.Trim(path, "/") + "/print",
		Method: http.MethodGet,
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	if rep.Entities == nil {
		return []Entity{}, nil
	}
	return rep.Entities, nil
}

func (c *legacyClient) Add(ctx context.Context, path string, attrs map[string]string) (Entity, error) {
	rep, err := c.Do(ctx, Request{
		Path:   strings.Trim(path, "/") + "/add",
		Method: http.MethodPost,
		Body:   attrs,
	})
	if err != nil {
		return nil, err
	}
	ent := make(Entity, len(attrs)+1)
	for k, v := range attrs {
		ent[k] = v
	}
	if id := rep.Attrs["ret"]; id != "" {
		ent["id"] = id
	}
	return ent, nil
}

func (c *legacyClient) Set(ctx context.Context, path, id string, attrs map[string]string) error {
	body := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		body[k] = v
	}
	body[".id"] = id
	_, err := c.Do(ctx, Request{
		Path:   strings.Trim(path, "/") + "/set",
		Method: http.MethodPost,
		Body:   body,
	})
	return err
}

func (c *legacyClient) Remove(ctx context.Context, path, id string) error {
	_, err := c.Do(ctx, Request{
		Path:   strings.Trim(path, "/") + "/remove",
		Method: http.MethodPost,
		Body:   map[string]string{".id": id},
	})
	return err
}

// Close tears down the session.
func (c *legacyClient) Close() error {
	c.conn.Close()
	return nil
}

// legacyWords builds the sentence for a request: the command word is the
// resource path verbatim, reads carry "?key=value" query words, writes
// carry "=key=value" attribute words. Words are emitted in sorted key
// order so sentences are stable.
func legacyWords(req Request) []string {
	words := []string{"/" + strings.Trim(req.Path, "/")}

	if req.IsRead() {
		for _, k := range sortedKeys(req.Query) {
			words = append(words, "?"+k+"="+req.Query[k])
		}
		return words
	}

	for _, k := range sortedKeys(req.Body) {
		words = append(words, "="+k+"="+req.Body[k])
	}
	return words
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// legacyReply converts a wire reply. Result rows live in the re-sentences;
// write results such as the assigned "ret" identifier live in the done
// sentence's attributes.
func legacyReply(rep *ros.Reply, read bool) *Reply {
	out := &Reply{Status: http.StatusOK}

	if read || len(rep.Re) > 0 {
		rows := make([]map[string]string, len(rep.Re))
		for i, s := range rep.Re {
			rows[i] = s.Map
		}
		out.Entities = normalizeLegacyAll(rows)
	}

	if rep.Done != nil && len(rep.Done.Map) > 0 {
		out.Attrs = make(map[string]string, len(rep.Done.Map))
		for k, v := range rep.Done.Map {
			out.Attrs[k] = v
		}
	}

	return out
}

// wrapLegacyErr converts a driver error into a ProtocolError, pulling the
// device's message out of the trap sentence when one is present.
func wrapLegacyErr(err error) error {
	var devErr *ros.DeviceError
	if errors.As(err, &devErr) {
		msg := err.Error()
		if devErr.Sentence != nil {
			if m := devErr.Sentence.Map["message"]; m != "" {
				msg = m
			}
		}
		return &ProtocolError{Message: msg, Err: err}
	}
	return &ProtocolError{Message: err.Error(), Err: err}
}
