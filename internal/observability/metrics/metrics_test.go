package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("firm_id", "123"),
		attribute.String("client_id", "456"),
		attribute.String("format", "pdf"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "firm_id" && attrs[1].Key != "firm_id" {
		t.Fatalf("expected firm_id to be retained")
	}
	if attrs[0].Key != "format" && attrs[1].Key != "format" {
		t.Fatalf("expected format to be retained")
	}
}
