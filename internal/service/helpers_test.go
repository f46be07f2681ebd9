package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"ustva-extractor/internal/models"

	"go.uber.org/zap"
)

// memStore is an in-memory repository.Store for service tests.
type memStore struct {
	mu        sync.Mutex
	receipts  []*models.Receipt
	feedback  []*models.FeedbackEvent
	failWrite bool
	lastLimit int
}

func (m *memStore) Enabled() bool                      { return true }
func (m *memStore) Ping(context.Context) error         { return nil }
func (m *memStore) EnsureSchema(context.Context) error { return nil }
func (m *memStore) Close() {}

func (m *memStore) SaveReceipt(_ context.Context, r *models.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("connection refused")
	}
	m.receipts = append(m.receipts, r)
	return nil
}

func (m *memStore) SaveFeedback(_ context.Context, f *models.FeedbackEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("connection refused")
	}
	m.feedback = append(m.feedback, f)
	return nil
}

func (m *memStore) ListRecentReceipts(_ context.Context, limit int) ([]*models.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	out := append([]*models.Receipt(nil), m.receipts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CountReceipts(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.receipts), nil
}

func (m *memStore) savedReceipts() []*models.Receipt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Receipt(nil), m.receipts...)
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "einvoice", "testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func newTestDispatcher() *Dispatcher {
	logger := zap.NewNop()
	return NewDispatcher(NewAttachmentExtractor(logger), nil, logger)
}

// buildPDF writes a minimal one-page PDF. Each attachment is embedded through
// the EmbeddedFiles name tree the way ZUGFeRD producers do it.
func buildPDF(attachments map[string][]byte) []byte {
	names := make([]string, 0, len(attachments))
	for name := range attachments {
		names = append(names, name)
	}
	sort.Strings(names)

	var objects []string
	embedded := ""
	if len(names) > 0 {
		embedded = " /Names << /EmbeddedFiles << /Names ["
		for i, name := range names {
			embedded += fmt.Sprintf(" (%s) %d 0 R", name, 4+2*i)
		}
		embedded += " ] >> >>"
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R"+embedded+" >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>",
	)
	for i, name := range names {
		data := attachments[name]
		objects = append(objects,
			fmt.Sprintf("<< /Type /Filespec /F (%s) /UF (%s) /EF << /F %d 0 R >> >>", name, name, 5+2*i),
			fmt.Sprintf("<< /Type /EmbeddedFile /Length %d >>\nstream\n%s\nendstream", len(data), data),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
