package service

import (
	"bytes"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// maxAttachmentSize caps how much of one embedded file is read into memory.
const maxAttachmentSize = 10 << 20

// Attachment is an XML file embedded in a PDF (ZUGFeRD / Factur-X / XRechnung).
type Attachment struct {
	FileName string
	XML      []byte
}

// AttachmentExtractor finds the embedded e-invoice XML in a PDF.
type AttachmentExtractor struct {
	conf   *model.Configuration
	logger *zap.Logger
}

func NewAttachmentExtractor(logger *zap.Logger) *AttachmentExtractor {
	// pdfcpu would otherwise create its config directory in the user's home.
	api.DisableConfigDir()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &AttachmentExtractor{
		conf:   conf,
		logger: logger,
	}
}

// ExtractXML returns the first embedded file that is XML by name or content.
// Broken or encrypted PDFs, and PDFs without such a file, report false.
func (e *AttachmentExtractor) ExtractXML(data []byte) (att *Attachment, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("PDF library panicked while reading attachments", zap.Any("panic", r))
			att, ok = nil, false
		}
	}()

	attachments, err := api.ExtractAttachmentsRaw(bytes.NewReader(data), "", nil, e.configuration())
	if err != nil {
		e.logger.Debug("No attachments extracted from PDF", zap.Error(err))
		return nil, false
	}

	// Prefer well-known ZUGFeRD / Factur-X names, then any *.xml, then sniffed content.
	sort.SliceStable(attachments, func(i, j int) bool {
		return attachmentRank(attachments[i].FileName) < attachmentRank(attachments[j].FileName)
	})

	for _, a := range attachments {
		if a.Reader == nil {
			continue
		}
		content, err := io.ReadAll(io.LimitReader(a.Reader, maxAttachmentSize))
		if err != nil {
			e.logger.Warn("Failed to read PDF attachment", zap.String("attachment", a.FileName), zap.Error(err))
			continue
		}
		if isXMLName(a.FileName) || looksLikeXML(content) {
			return &Attachment{FileName: a.FileName, XML: content}, true
		}
	}

	return nil, false
}

// configuration returns a copy so that pdfcpu's per-command mutations do not
// race between concurrent requests.
func (e *AttachmentExtractor) configuration() *model.Configuration {
	conf := *e.conf
	return &conf
}

func attachmentRank(name string) int {
	switch strings.ToLower(path.Base(name)) {
	case "factur-x.xml", "zugferd-invoice.xml", "xrechnung.xml", "zugferd_invoice.xml":
		return 0
	}
	if isXMLName(name) {
		return 1
	}
	return 2
}

func isXMLName(name string) bool {
	return strings.EqualFold(path.Ext(name), ".xml")
}

func looksLikeXML(content []byte) bool {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf")), " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("<"))
}
