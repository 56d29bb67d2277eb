package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/api/middleware"
	"github.com/vigilcam/portal/internal/core/domain"
)

type stubAnalyzer struct {
	analyzeFn func(ctx context.Context, videoURL string) (*domain.AnalysisResult, error)
}

func (s *stubAnalyzer) Analyze(ctx context.Context, videoURL string) (*domain.AnalysisResult, error) {
	return s.analyzeFn(ctx, videoURL)
}

func TestAnalysisHandler_Success(t *testing.T) {
	e := newTestEcho()
	analyzer := &stubAnalyzer{analyzeFn: func(ctx context.Context, videoURL string) (*domain.AnalysisResult, error) {
		if videoURL != "https://example.com/clip.mp4" {
			t.Fatalf("unexpected url %q", videoURL)
		}
		return &domain.AnalysisResult{Status: "completed", AverageScore: 0.42, FramesAnalyzed: 77, GraphURL: "/graphs/sample.png"}, nil
	}}
	handler := NewAnalysisHandler(analyzer, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/analyze", `{"video_url":"https://example.com/clip.mp4"}`), rec)
	c.Set(middleware.SessionKey, testSession("s"))

	if err := handler.Analyze(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "completed" || resp["frames_analyzed"] != float64(77) || resp["graph_url"] != "/graphs/sample.png" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAnalysisHandler_Unauthorized(t *testing.T) {
	e := newTestEcho()
	handler := NewAnalysisHandler(&stubAnalyzer{}, nil, zerolog.Nop())

	c := e.NewContext(jsonRequest(http.MethodPost, "/analyze", `{"video_url":"https://example.com/clip.mp4"}`), httptest.NewRecorder())
	assertHTTPError(t, handler.Analyze(c), http.StatusUnauthorized)
}

func TestAnalysisHandler_BadURL(t *testing.T) {
	e := newTestEcho()
	handler := NewAnalysisHandler(&stubAnalyzer{analyzeFn: func(context.Context, string) (*domain.AnalysisResult, error) {
		t.Fatalf("should not be called")
		return nil, nil
	}}, nil, zerolog.Nop())

	for _, body := range []string{`{}`, `{"video_url":"ftp://example.com/a.mp4"}`, `{"video_url":"not a url"}`} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/analyze", body), httptest.NewRecorder())
		c.Set(middleware.SessionKey, testSession("s"))
		assertHTTPError(t, handler.Analyze(c), http.StatusBadRequest)
	}
}

func TestAnalysisHandler_AnalyzerError(t *testing.T) {
	e := newTestEcho()
	boom := errors.New("engine unavailable")
	handler := NewAnalysisHandler(&stubAnalyzer{analyzeFn: func(context.Context, string) (*domain.AnalysisResult, error) {
		return nil, boom
	}}, nil, zerolog.Nop())

	c := e.NewContext(jsonRequest(http.MethodPost, "/analyze", `{"video_url":"http://example.com/a.mp4"}`), httptest.NewRecorder())
	c.Set(middleware.SessionKey, testSession("s"))
	if err := handler.Analyze(c); !errors.Is(err, boom) {
		t.Fatalf("expected analyzer error, got %v", err)
	}
}
