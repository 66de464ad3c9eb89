package infra_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"vista-nav/internal/domain"
	"vista-nav/internal/infra"
)

func TestTransportError_MatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&infra.TransportError{Op: "recommended routes", Err: cause})

	if !errors.Is(err, domain.ErrTransport) {
		t.Error("expected errors.Is(err, ErrTransport)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to be unwrapped")
	}
	if errors.Is(err, domain.ErrPlayback) {
		t.Error("transport error should not match ErrPlayback")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "created", status: http.StatusCreated},
		{name: "server error", status: http.StatusInternalServerError, body: `{"success":false}`, wantErr: true},
		{name: "not found no body", status: http.StatusNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}
			err := infra.CheckStatus(resp)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
