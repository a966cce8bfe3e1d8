package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/georgemunganga/shoestore/internal/errs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// gatedReader blocks its first Read until release is closed.
type gatedReader struct {
	release chan struct{}
	r       io.Reader
}

func newGatedReader(data []byte) *gatedReader {
	return &gatedReader{release: make(chan struct{}), r: bytes.NewReader(data)}
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.release
	return g.r.Read(p)
}

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) deliver(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

func (c *collector) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func TestConvertBuildsDataURI(t *testing.T) {
	c := NewConverter(nil)
	var got collector

	ticket := c.Convert(TargetSettingsLogo, bytes.NewReader(pngHeader), got.deliver)
	<-ticket.Done()
	c.Wait()

	results := got.all()
	require.Len(t, results, 1)
	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, TargetSettingsLogo, res.Target)
	assert.Equal(t, ticket.Gen, res.Ticket)
	assert.Equal(t, "image/png", res.MIME)
	assert.Equal(t, len(pngHeader), res.Size)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), res.DataURI)
}

func TestConvertStripsMIMEParameters(t *testing.T) {
	c := NewConverter(nil)
	var got collector
	c.Convert("notes", strings.NewReader("hello storefront"), got.deliver)
	c.Wait()

	results := got.all()
	require.Len(t, results, 1)
	assert.Equal(t, "text/plain", results[0].MIME)
	assert.True(t, strings.HasPrefix(results[0].DataURI, "data:text/plain;base64,"))
}

func TestNewerConversionSupersedesOlder(t *testing.T) {
	c := NewConverter(nil)
	var got collector

	slow := newGatedReader(pngHeader)
	first := c.Convert(TargetProductImage, slow, got.deliver)
	second := c.Convert(TargetProductImage, strings.NewReader("second upload"), got.deliver)
	<-second.Done()

	close(slow.release)
	<-first.Done()
	c.Wait()

	results := got.all()
	require.Len(t, results, 1, "the stale result must be dropped")
	assert.Equal(t, second.Gen, results[0].Ticket)
	assert.Equal(t, "text/plain", results[0].MIME)
}

func TestCancelDropsPendingResult(t *testing.T) {
	c := NewConverter(nil)
	var got collector

	slow := newGatedReader(pngHeader)
	ticket := c.Convert(TargetSettingsLogo, slow, got.deliver)
	c.Cancel(TargetSettingsLogo)
	close(slow.release)
	<-ticket.Done()
	c.Wait()

	assert.Empty(t, got.all())
}

func TestCancelTicketSparesNewerConversion(t *testing.T) {
	c := NewConverter(nil)
	var got collector

	older := newGatedReader(pngHeader)
	newer := newGatedReader([]byte("newer upload"))
	first := c.Convert(TargetSettingsLogo, older, got.deliver)
	second := c.Convert(TargetSettingsLogo, newer, got.deliver)

	c.CancelTicket(first)
	close(older.release)
	close(newer.release)
	<-first.Done()
	<-second.Done()
	c.Wait()

	results := got.all()
	require.Len(t, results, 1)
	assert.Equal(t, second.Gen, results[0].Ticket)
}

func TestCancelTicketDropsCurrentConversion(t *testing.T) {
	c := NewConverter(nil)
	var got collector

	slow := newGatedReader(pngHeader)
	ticket := c.Convert(TargetProductImage, slow, got.deliver)
	c.CancelTicket(ticket)
	close(slow.release)
	c.Wait()

	assert.Empty(t, got.all())
	c.CancelTicket(nil)
}

func TestTargetsAreIndependent(t *testing.T) {
	c := NewConverter(nil)
	var got collector

	slow := newGatedReader(pngHeader)
	c.Convert(TargetSettingsLogo, slow, got.deliver)
	c.Convert(TargetProductImage, strings.NewReader("other"), got.deliver)
	close(slow.release)
	c.Wait()

	assert.Len(t, got.all(), 2)
}

func TestConvertRejectsOversizedUpload(t *testing.T) {
	c := NewConverter(nil, WithMaxBytes(8))
	var got collector
	c.Convert(TargetProductImage, bytes.NewReader(pngHeader), got.deliver)
	c.Wait()

	results := got.all()
	require.Len(t, results, 1)
	var verr *errs.ValidationError
	require.ErrorAs(t, results[0].Err, &verr)
	assert.Equal(t, "file", verr.Field)
	assert.Empty(t, results[0].DataURI)
}

func TestConvertRejectsEmptyAndDisallowed(t *testing.T) {
	c := NewConverter(nil, WithAllowedPrefixes("image/"))
	var got collector
	c.Convert("a", strings.NewReader(""), got.deliver)
	c.Wait()
	c.Convert("b", strings.NewReader("plain text"), got.deliver)
	c.Wait()

	results := got.all()
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, errs.ErrValidation)
	assert.ErrorIs(t, results[1].Err, errs.ErrValidation)
	assert.Contains(t, results[1].Err.Error(), "text/plain")
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestConvertReportsReadErrors(t *testing.T) {
	c := NewConverter(nil)
	var got collector
	c.Convert("x", brokenReader{}, got.deliver)
	c.Wait()

	results := got.all()
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "connection reset")
}
