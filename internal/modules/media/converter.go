// Package media turns uploaded files into data URIs for the image and logo
// fields. Conversions run off the caller's goroutine; each target keeps a
// generation counter so a result that has been superseded or cancelled is
// never delivered.
package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/georgemunganga/shoestore/internal/errs"
)

// Targets used by the storefront forms.
const (
	TargetSettingsLogo = "settings.logo"
	TargetProductImage = "product.image"
)

// DefaultMaxBytes bounds an upload when no limit is configured.
const DefaultMaxBytes = 2 << 20

// Result is the outcome of one conversion.
type Result struct {
	Target  string `json:"target"`
	Ticket  uint64 `json:"ticket"`
	MIME    string `json:"mime"`
	Size    int    `json:"size"`
	DataURI string `json:"data_uri,omitempty"`
	Err     error  `json:"-"`
}

// Ticket identifies one Convert call. Done is closed once the conversion has
// finished, whether or not its result was delivered.
type Ticket struct {
	Target string
	Gen    uint64
	done   chan struct{}
}

func (t *Ticket) Done() <-chan struct{} { return t.done }

// Option configures a Converter.
type Option func(*Converter)

// WithMaxBytes caps the accepted upload size.
func WithMaxBytes(n int64) Option {
	return func(c *Converter) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithAllowedPrefixes restricts accepted MIME types to those starting with
// one of prefixes, e.g. "image/".
func WithAllowedPrefixes(prefixes ...string) Option {
	return func(c *Converter) { c.allowed = prefixes }
}

// Converter runs file to data URI conversions.
type Converter struct {
	mu       sync.Mutex
	gens     map[string]uint64
	wg       sync.WaitGroup
	maxBytes int64
	allowed  []string
	logger   *zap.Logger
}

func NewConverter(logger *zap.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Converter{
		gens:     map[string]uint64{},
		maxBytes: DefaultMaxBytes,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// MaxBytes reports the upload limit.
func (c *Converter) MaxBytes() int64 { return c.maxBytes }

// Convert reads src on a new goroutine and calls deliver with the result,
// unless another Convert or a Cancel for the same target happened first.
// deliver runs with the converter locked and must not call back into it.
func (c *Converter) Convert(target string, src io.Reader, deliver func(Result)) *Ticket {
	c.mu.Lock()
	c.gens[target]++
	ticket := &Ticket{Target: target, Gen: c.gens[target], done: make(chan struct{})}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(ticket.done)

		res := c.convert(src)
		res.Target = target
		res.Ticket = ticket.Gen

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gens[target] != ticket.Gen {
			c.logger.Debug("dropping stale conversion",
				zap.String("target", target), zap.Uint64("ticket", ticket.Gen))
			return
		}
		if deliver != nil {
			deliver(res)
		}
	}()
	return ticket
}

// Cancel invalidates every outstanding conversion for target.
func (c *Converter) Cancel(target string) {
	c.mu.Lock()
	c.gens[target]++
	c.mu.Unlock()
}

// CancelTicket drops the result of t if it is still the newest conversion
// for its target. A newer conversion for the same target is left alone.
func (c *Converter) CancelTicket(t *Ticket) {
	if t == nil {
		return
	}
	c.mu.Lock()
	if c.gens[t.Target] == t.Gen {
		c.gens[t.Target]++
	}
	c.mu.Unlock()
}

// Wait blocks until every started conversion has finished.
func (c *Converter) Wait() { c.wg.Wait() }

func (c *Converter) convert(src io.Reader) Result {
	data, err := io.ReadAll(io.LimitReader(src, c.maxBytes+1))
	if err != nil {
		return Result{Err: fmt.Errorf("read upload: %w", err)}
	}
	if int64(len(data)) > c.maxBytes {
		return Result{Err: &errs.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file exceeds %d bytes", c.maxBytes),
		}}
	}
	if len(data) == 0 {
		return Result{Err: errs.Required("file")}
	}

	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	mediaType = strings.TrimSpace(mediaType)
	if !c.accepts(mediaType) {
		return Result{MIME: mediaType, Size: len(data), Err: &errs.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported file type %s", mediaType),
		}}
	}
	return Result{
		MIME:    mediaType,
		Size:    len(data),
		DataURI: DataURI(mediaType, data),
	}
}

func (c *Converter) accepts(mediaType string) bool {
	if len(c.allowed) == 0 {
		return true
	}
	for _, prefix := range c.allowed {
		if strings.HasPrefix(mediaType, prefix) {
			return true
		}
	}
	return false
}

// DataURI encodes data as a base64 data URI of the given media type.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
