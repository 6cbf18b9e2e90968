package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	conversions      metric.Int64Counter
	documentExports  metric.Int64Counter
	rateCardFlips    metric.Int64Counter
	invoicesCreated  metric.Int64Counter
	paymentsRecorded metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "praxis"
	}
	meter := provider.Meter(name)

	conversions, err := meter.Int64Counter("praxis_currency_conversions_total")
	if err != nil {
		return nil, err
	}
	documentExports, err := meter.Int64Counter("praxis_invoice_documents_total")
	if err != nil {
		return nil, err
	}
	rateCardFlips, err := meter.Int64Counter("praxis_ratecard_flips_total")
	if err != nil {
		return nil, err
	}
	invoicesCreated, err := meter.Int64Counter("praxis_invoices_created_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("praxis_payments_recorded_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		conversions:      conversions,
		documentExports:  documentExports,
		rateCardFlips:    rateCardFlips,
		invoicesCreated:  invoicesCreated,
		paymentsRecorded: paymentsRecorded,
	}, nil
}

// RecordConversion increments currency conversion counts.
func (m *Metrics) RecordConversion(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("from_currency", strings.TrimSpace(from)),
		attribute.String("to_currency", strings.TrimSpace(to)),
	)
	m.conversions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDocumentExport increments invoice document export counts.
func (m *Metrics) RecordDocumentExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("format", strings.TrimSpace(format)))
	m.documentExports.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateCardFlip increments rate card activation flip counts.
func (m *Metrics) RecordRateCardFlip(ctx context.Context, direction string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("direction", strings.TrimSpace(direction)))
	m.rateCardFlips.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvoiceCreated increments invoice creation counts.
func (m *Metrics) RecordInvoiceCreated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.invoicesCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPayment increments recorded payment counts.
func (m *Metrics) RecordPayment(ctx context.Context, currency string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("currency", strings.TrimSpace(currency)))
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"firm_id":       {},
	"endpoint":      {},
	"status_code":   {},
	"from_currency": {},
	"to_currency":   {},
	"format":        {},
	"direction":     {},
	"kind":          {},
	"currency":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
