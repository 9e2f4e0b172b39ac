package classify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"callcenter-ops/pkg/utils"
)

// Classifier is the line-type/fraud lookup contract.
//
// Classification is mandatory and blocking for every inbound call: no fraud
// decision can be made without it, so callers treat any error here as fatal
// to the whole request. There is deliberately no retry at this layer.
type Classifier interface {
	Classify(ctx context.Context, sourceNumber string) (ClassificationResult, error)
}

// ClassificationError wraps any failure to obtain a classification.
type ClassificationError struct {
	Number string
	Err    error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify: lookup for %q failed: %v", e.Number, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Client talks to the external classifier service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// classifierPayload is the classifier's wire shape inside the standard
// backend envelope.
type classifierPayload struct {
	LineType    string `json:"line_type"`
	FraudScore  int    `json:"fraud_score"`
	RecentAbuse bool   `json:"recent_abuse"`
}

func (c *Client) Classify(ctx context.Context, sourceNumber string) (ClassificationResult, error) {
	if sourceNumber == "" {
		return ClassificationResult{}, &ClassificationError{Number: sourceNumber, Err: fmt.Errorf("source number is required")}
	}

	u := c.baseURL + "?number=" + url.QueryEscape(sourceNumber)

	var payload classifierPayload
	if err := utils.GetJSON(ctx, c.http, u, &payload); err != nil {
		return ClassificationResult{}, &ClassificationError{Number: sourceNumber, Err: err}
	}
	if payload.FraudScore < 0 || payload.FraudScore > 100 {
		return ClassificationResult{}, &ClassificationError{
			Number: sourceNumber,
			Err:    fmt.Errorf("fraud score out of range: %d", payload.FraudScore),
		}
	}

	lt := ParseLineType(payload.LineType)
	return ClassificationResult{
		SourceNumber: sourceNumber,
		LineType:     lt,
		IsVoip:       lt == LineTypeVoip,
		FraudScore:   payload.FraudScore,
		RecentAbuse:  payload.RecentAbuse,
	}, nil
}
