package converter

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/tracing"
)

type converterService struct {
	cfg        *config.ConverterConfig
	httpClient *http.Client
}

func NewConverterService(cfg *config.ConverterConfig) interfaces.ConverterService {
	return &converterService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Convert posts the saved file to the conversion endpoint and writes the
// returned document next to the original. The original is always kept.
func (s *converterService) Convert(ctx context.Context, path string, targetFormat string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "converterService.Convert")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("target_format", targetFormat)

	if s.cfg == nil || s.cfg.Url == "" {
		return "", errors.New("converter endpoint is not configured")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to read file for conversion")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", errors.Wrap(err, "failed to build conversion request")
	}
	if _, err := part.Write(content); err != nil {
		return "", errors.Wrap(err, "failed to build conversion request")
	}
	if err := writer.WriteField("format", targetFormat); err != nil {
		return "", errors.Wrap(err, "failed to build conversion request")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to build conversion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Url, &body)
	if err != nil {
		return "", errors.Wrap(err, "failed to build conversion request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "conversion request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("conversion endpoint returned %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return "", err
	}

	converted, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to read converted file")
	}

	ext := filepath.Ext(path)
	newPath := strings.TrimSuffix(path, ext) + "." + strings.TrimPrefix(targetFormat, ".")
	if err := os.WriteFile(newPath, converted, 0o644); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to write converted file")
	}

	return newPath, nil
}
