package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	envelopeMocks "github.com/allisson/fieldcrypt/internal/envelope/usecase/mocks"
	recordMocks "github.com/allisson/fieldcrypt/internal/record/usecase/mocks"
)

// createTestContext creates a test Gin context with a JSON body and optional path params.
func createTestContext(
	method, path string,
	body interface{},
	params ...gin.Param,
) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		bodyReader = bytes.NewReader([]byte(b))
	default:
		bodyBytes, _ := json.Marshal(b)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params

	return c, w
}

// setupTestRecordHandler creates a record handler with mocked use cases.
func setupTestRecordHandler(
	t *testing.T,
) (*RecordHandler, *envelopeMocks.MockEnvelopeUseCase, *recordMocks.MockRecordUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	envelopes := &envelopeMocks.MockEnvelopeUseCase{}
	records := &recordMocks.MockRecordUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRecordHandler(envelopes, records, logger), envelopes, records
}
