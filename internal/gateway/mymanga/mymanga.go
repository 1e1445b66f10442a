// Package mymanga is the HTTP gateway for the MyManga catalog API.
package mymanga

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vrsandeep/koma-go/internal/models"
)

const otelScope = "koma/gateway/mymanga"

// Options tunes the HTTP client.
type Options struct {
	Timeout    time.Duration
	PageSize   int
	RetryCount int
}

// MyMangaProvider implements models.Gateway for the MyManga API.
type MyMangaProvider struct {
	client   *resty.Client
	pageSize int
	tracer   trace.Tracer
}

// New creates a provider talking to baseURL.
func New(baseURL string, opts Options) *MyMangaProvider {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(discardLogger{})
	if opts.RetryCount > 0 {
		client.SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(500 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
			})
	}

	return &MyMangaProvider{
		client:   client,
		pageSize: opts.PageSize,
		tracer:   otel.Tracer(otelScope),
	}
}

// GetInfo returns static information about this provider.
func (p *MyMangaProvider) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{
		ID:   "mymanga",
		Name: "MyManga",
	}
}

// FetchAll returns one page of the full catalog.
func (p *MyMangaProvider) FetchAll(ctx context.Context, page int) (models.MangaPage, error) {
	ctx, span := p.tracer.Start(ctx, "mymanga.fetch_all", trace.WithAttributes(attribute.Int("page", page)))
	defer span.End()

	req := p.client.R().SetContext(ctx).SetQueryParams(p.pageParams(page))
	return p.do(span, req, http.MethodGet, "/list/mangas")
}

// FetchCurated returns the best-rated selection. It is not paginated.
func (p *MyMangaProvider) FetchCurated(ctx context.Context) (models.MangaPage, error) {
	ctx, span := p.tracer.Start(ctx, "mymanga.fetch_curated")
	defer span.End()

	return p.do(span, p.client.R().SetContext(ctx), http.MethodGet, "/list/bestMangas")
}

// Search runs a filtered search and returns the requested page.
func (p *MyMangaProvider) Search(ctx context.Context, filter models.SearchFilter, page int) (models.MangaPage, error) {
	ctx, span := p.tracer.Start(ctx, "mymanga.search", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Bool("search.contains", filter.Contains),
		attribute.Int("search.genres", len(filter.Genres)),
	))
	defer span.End()

	req := p.client.R().
		SetContext(ctx).
		SetQueryParams(p.pageParams(page)).
		SetHeader("Content-Type", "application/json").
		SetBody(newCustomSearch(filter))
	return p.do(span, req, http.MethodPost, "/search/manga")
}

func (p *MyMangaProvider) pageParams(page int) map[string]string {
	return map[string]string{
		"page": strconv.Itoa(page),
		"per":  strconv.Itoa(p.pageSize),
	}
}

// do executes the request and classifies every failure as a GatewayError.
func (p *MyMangaProvider) do(span trace.Span, req *resty.Request, method, path string) (models.MangaPage, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return models.MangaPage{}, fail(span, &models.GatewayError{Kind: models.GatewayTransport, Err: err})
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.StatusCode() != http.StatusOK {
		return models.MangaPage{}, fail(span, &models.GatewayError{Kind: models.GatewayStatus, StatusCode: resp.StatusCode()})
	}

	var body MangaResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return models.MangaPage{}, fail(span, &models.GatewayError{Kind: models.GatewayDecode, Err: err})
	}
	return body.toPage(), nil
}

func fail(span trace.Span, err *models.GatewayError) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Kind))
	return err
}

type discardLogger struct{}

func (discardLogger) Errorf(string, ...interface{}) {}
func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Debugf(string, ...interface{}) {}
