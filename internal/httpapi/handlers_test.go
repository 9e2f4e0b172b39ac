package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"callcenter-ops/internal/campaigns"
	"callcenter-ops/internal/cdr"
	"callcenter-ops/internal/classify"
	"callcenter-ops/internal/routing"

	"github.com/gin-gonic/gin"
)

type stubClassifier struct {
	res classify.ClassificationResult
	err error
}

func (s stubClassifier) Classify(ctx context.Context, sourceNumber string) (classify.ClassificationResult, error) {
	if s.err != nil {
		return classify.ClassificationResult{}, s.err
	}
	res := s.res
	res.SourceNumber = sourceNumber
	return res, nil
}

type stubDirectory struct {
	list []campaigns.Campaign
	err  error
}

func (s stubDirectory) ListCampaigns(ctx context.Context) ([]campaigns.Campaign, error) {
	return s.list, s.err
}

type stubMasker struct {
	masked string
	ok     bool
}

func (s stubMasker) ResolveMask(ctx context.Context, voipNumber string) (string, bool) {
	return s.masked, s.ok
}

func newRouter(h Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/cdrs", h.CreateCDR)
	return r
}

func postCDR(t *testing.T, r *gin.Engine, payload string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/cdrs", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var body map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad response json: %v: %s", err, w.Body.String())
		}
	}
	return w, body
}

func engineWith(cls classify.Classifier, dir routing.CampaignDirectory, msk routing.Masker, w cdr.Writer) *routing.Engine {
	return routing.NewEngine(cls, dir, msk, w, nil, 75)
}

func TestCreateCDR_NonVoipAccepted(t *testing.T) {
	// Scenario: classifier says landline, call sails through unmasked.
	e := engineWith(
		stubClassifier{res: classify.ClassificationResult{LineType: classify.LineTypeLandline}},
		stubDirectory{}, stubMasker{}, cdr.NewMemoryWriter(),
	)
	r := newRouter(Handlers{Engine: e})

	w, body := postCDR(t, r, `{"src":"15551234567","dst":"15550002222"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}
	data := body["data"].(map[string]any)
	if data["is_voip"] != false || data["masked"] != false {
		t.Fatalf("expected unmasked non-voip data, got %v", data)
	}
	if data["dst"] != "15550002222" {
		t.Fatalf("expected passthrough field on response, got %v", data)
	}
}

func TestCreateCDR_HighFraudRejected(t *testing.T) {
	e := engineWith(
		stubClassifier{res: classify.ClassificationResult{LineType: classify.LineTypeVoip, IsVoip: true, FraudScore: 90}},
		stubDirectory{}, stubMasker{}, cdr.NewMemoryWriter(),
	)
	r := newRouter(Handlers{Engine: e})

	w, body := postCDR(t, r, `{"src":"15559998888"}`)
	// Rejections are a domain outcome, not a transport error.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body)
	}
	data := body["data"].(map[string]any)
	if data["reason"] != "HIGH_FRAUD_SCORE" || data["status"] != "REJECTED" {
		t.Fatalf("unexpected rejection data: %v", data)
	}
	if data["is_voip"] != true || data["fraud_score"] != float64(90) {
		t.Fatalf("expected classification echoed, got %v", data)
	}
}

func TestCreateCDR_NoAcceptingCampaignUsesLegacyReason(t *testing.T) {
	e := engineWith(
		stubClassifier{res: classify.ClassificationResult{LineType: classify.LineTypeVoip, IsVoip: true, FraudScore: 10}},
		stubDirectory{list: []campaigns.Campaign{{ID: "c1", Name: "Landline-Only"}}},
		stubMasker{}, cdr.NewMemoryWriter(),
	)
	r := newRouter(Handlers{Engine: e})

	w, body := postCDR(t, r, `{"src":"15557778888"}`)
	if w.Code != http.StatusOK || body["success"] != false {
		t.Fatalf("expected 200 rejection, got %d %v", w.Code, body)
	}
	data := body["data"].(map[string]any)
	if data["reason"] != "VOIP_CALL" {
		t.Fatalf("expected legacy VOIP_CALL reason on the wire, got %v", data["reason"])
	}
}

func TestCreateCDR_MaskedAccept(t *testing.T) {
	e := engineWith(
		stubClassifier{res: classify.ClassificationResult{LineType: classify.LineTypeVoip, IsVoip: true, FraudScore: 10}},
		stubDirectory{list: []campaigns.Campaign{{ID: "c1", Name: "VoIP-Intake", AcceptsVoip: true}}},
		stubMasker{masked: "15550001111", ok: true},
		cdr.NewMemoryWriter(),
	)
	r := newRouter(Handlers{Engine: e})

	w, body := postCDR(t, r, `{"src":"15557778888"}`)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected accepted response, got %d %v", w.Code, body)
	}
	data := body["data"].(map[string]any)
	if data["masked"] != true || data["src"] != "15550001111" {
		t.Fatalf("expected masked src, got %v", data)
	}
	if data["original_src"] != "15557778888" || data["campaign_name"] != "VoIP-Intake" {
		t.Fatalf("expected enrichment fields, got %v", data)
	}
}

func TestCreateCDR_ClassifierDownIs500(t *testing.T) {
	e := engineWith(
		stubClassifier{err: &classify.ClassificationError{Number: "x", Err: errors.New("timeout")}},
		stubDirectory{}, stubMasker{}, cdr.NewMemoryWriter(),
	)
	r := newRouter(Handlers{Engine: e})

	w, body := postCDR(t, r, `{"src":"15551234567"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body["message"] != "Failed to create CDR record" {
		t.Fatalf("expected generic ingestion failure message, got %v", body)
	}
}

func TestCreateCDR_MissingSrcIs400(t *testing.T) {
	e := engineWith(stubClassifier{}, stubDirectory{}, stubMasker{}, cdr.NewMemoryWriter())
	r := newRouter(Handlers{Engine: e})

	w, _ := postCDR(t, r, `{"dst":"15550002222"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateCDR_InvalidJSONIs400(t *testing.T) {
	e := engineWith(stubClassifier{}, stubDirectory{}, stubMasker{}, cdr.NewMemoryWriter())
	r := newRouter(Handlers{Engine: e})

	w, _ := postCDR(t, r, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
