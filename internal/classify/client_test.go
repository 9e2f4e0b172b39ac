package classify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ClassifyMapsWirePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("number"); got != "15559998888" {
			t.Errorf("expected number query param, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"line_type":"voip","fraud_score":90,"recent_abuse":true}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	res, err := c.Classify(context.Background(), "15559998888")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.LineType != LineTypeVoip || !res.IsVoip {
		t.Fatalf("expected VOIP classification, got %+v", res)
	}
	if res.FraudScore != 90 || !res.RecentAbuse {
		t.Fatalf("expected score/abuse mapped, got %+v", res)
	}
	if res.SourceNumber != "15559998888" {
		t.Fatalf("expected source number preserved, got %q", res.SourceNumber)
	}
}

func TestClient_ClassifyUnknownLineTypeIsNotVoip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"line_type":"satellite","fraud_score":5}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	res, err := c.Classify(context.Background(), "15551234567")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.LineType != LineTypeUnknown || res.IsVoip {
		t.Fatalf("expected UNKNOWN non-voip, got %+v", res)
	}
}

func TestClient_ClassifyFailureIsClassificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Classify(context.Background(), "15551234567")
	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
}

func TestClient_ClassifyRejectsOutOfRangeScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"line_type":"voip","fraud_score":250}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Classify(context.Background(), "15551234567")
	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError for bad score, got %v", err)
	}
}
