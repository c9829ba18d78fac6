package probe

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/devisefutures/check-CMD-plugin/internal/domain"
)

func certPEM(t *testing.T, cn string) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func chainPEM(t *testing.T) string {
	t.Helper()
	var out []byte
	out = append(out, certPEM(t, "TEST USER")...)
	out = append(out, certPEM(t, "TEST ROOT")...)
	out = append(out, certPEM(t, "TEST CA")...)
	return string(out)
}

func soapResponse(result string) string {
	return `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>` +
		`<GetCertificateResponse xmlns="http://Ama.Authentication.Service/">` +
		`<GetCertificateResult>` + result + `</GetCertificateResult>` +
		`</GetCertificateResponse></s:Body></s:Envelope>`
}

const soapFaultResponse = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>` +
	`<s:Fault><faultcode>s:Server</faultcode><faultstring>The service is unavailable</faultstring></s:Fault>` +
	`</s:Body></s:Envelope>`

func testProber(url string) *Prober {
	return New(
		NewClient(2*time.Second, zap.NewNop()),
		Endpoints{Preprod: url, Prod: url},
		zap.NewNop(),
	)
}

func testRequest() domain.ProbeRequest {
	return domain.ProbeRequest{
		UserID:          "+351 912345678",
		ApplicationID:   "app-id-1234",
		TimeoutSeconds:  2,
		WarningSeconds:  3,
		CriticalSeconds: 6,
	}
}

func TestInvoke_ValidCertificateChain(t *testing.T) {
	chain := chainPEM(t)
	var gotAction, gotBody string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		fmt.Fprint(w, soapResponse(chain))
	}))
	defer s.Close()

	outcome := testProber(s.URL).Invoke(context.Background(), testRequest())
	if outcome.Fault != nil {
		t.Fatalf("want no fault, got %v", outcome.Fault)
	}
	if outcome.CertificateSubject != "TEST USER" {
		t.Fatalf("want subject TEST USER, got %q", outcome.CertificateSubject)
	}
	if outcome.CertificateIssuer != "TEST CA" {
		t.Fatalf("want issuer TEST CA, got %q", outcome.CertificateIssuer)
	}
	if outcome.CertificateHierarchy != "TEST ROOT" {
		t.Fatalf("want hierarchy TEST ROOT, got %q", outcome.CertificateHierarchy)
	}
	if outcome.ElapsedSeconds < 0 {
		t.Fatalf("elapsed should be >= 0, got %f", outcome.ElapsedSeconds)
	}

	if gotAction != `"http://Ama.Authentication.Service/CCMovelSignature/GetCertificate"` {
		t.Fatalf("unexpected SOAPAction %q", gotAction)
	}
	if !strings.Contains(gotBody, "<userId>+351 912345678</userId>") {
		t.Fatalf("request body missing userId: %s", gotBody)
	}
	wantAppID := base64.StdEncoding.EncodeToString([]byte("app-id-1234"))
	if !strings.Contains(gotBody, "<applicationId>"+wantAppID+"</applicationId>") {
		t.Fatalf("request body missing base64 applicationId: %s", gotBody)
	}
}

func TestInvoke_SOAPFault(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, soapFaultResponse)
	}))
	defer s.Close()

	outcome := testProber(s.URL).Invoke(context.Background(), testRequest())
	if outcome.Fault == nil || outcome.Fault.Kind != domain.ServiceFault {
		t.Fatalf("want ServiceFault, got %v", outcome.Fault)
	}
	if !strings.Contains(outcome.Fault.Detail, "The service is unavailable") {
		t.Fatalf("want fault string in detail, got %q", outcome.Fault.Detail)
	}
}

func TestInvoke_EmptyResult(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, soapResponse(""))
	}))
	defer s.Close()

	outcome := testProber(s.URL).Invoke(context.Background(), testRequest())
	if outcome.Fault == nil || outcome.Fault.Kind != domain.ServiceFault {
		t.Fatalf("want ServiceFault for empty result, got %v", outcome.Fault)
	}
}

func TestInvoke_MalformedCertificate(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, soapResponse("definitely not PEM"))
	}))
	defer s.Close()

	outcome := testProber(s.URL).Invoke(context.Background(), testRequest())
	if outcome.Fault == nil || outcome.Fault.Kind != domain.MalformedCertificate {
		t.Fatalf("want MalformedCertificate, got %v", outcome.Fault)
	}
}

func TestInvoke_TransportError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	s.Close() // refuse connections

	outcome := testProber(s.URL).Invoke(context.Background(), testRequest())
	if outcome.Fault == nil || outcome.Fault.Kind != domain.TransportError {
		t.Fatalf("want TransportError, got %v", outcome.Fault)
	}
	if outcome.Fault.Detail == "" {
		t.Fatal("want non-empty transport error detail")
	}
}

func TestInvoke_UndecodableResponse(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>proxy error</html")
	}))
	defer s.Close()

	outcome := testProber(s.URL).Invoke(context.Background(), testRequest())
	if outcome.Fault == nil || outcome.Fault.Kind != domain.TransportError {
		t.Fatalf("want TransportError for undecodable body, got %v", outcome.Fault)
	}
}

func TestInvoke_DeadlineBecomesTimeoutFault(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, soapResponse(""))
	}))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome := testProber(s.URL).Invoke(ctx, testRequest())
	if outcome.Fault == nil || outcome.Fault.Kind != domain.Timeout {
		t.Fatalf("want Timeout when the deadline cancels the call, got %v", outcome.Fault)
	}
}
