package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// GetCertificate wire details, per version 1.6 of the CMD technical
// specification. The service is a WCF basicHttpBinding endpoint, so the
// exchange is SOAP 1.1: text/xml plus a SOAPAction header.
const (
	cmdNamespace  = "http://Ama.Authentication.Service/"
	soapEnvelope  = "http://schemas.xmlsoap.org/soap/envelope/"
	getCertAction = `"http://Ama.Authentication.Service/CCMovelSignature/GetCertificate"`
)

type requestEnvelope struct {
	XMLName xml.Name    `xml:"soapenv:Envelope"`
	EnvNS   string      `xml:"xmlns:soapenv,attr"`
	Body    requestBody `xml:"soapenv:Body"`
}

type requestBody struct {
	GetCertificate getCertificate
}

type getCertificate struct {
	XMLName       xml.Name `xml:"GetCertificate"`
	NS            string   `xml:"xmlns,attr"`
	ApplicationID string   `xml:"applicationId"` // xsd:base64Binary
	UserID        string   `xml:"userId"`
}

type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Fault    *soapFault       `xml:"Fault"`
	Response *getCertResponse `xml:"GetCertificateResponse"`
}

type getCertResponse struct {
	Result string `xml:"GetCertificateResult"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	Reason string `xml:"faultstring"`
}

// SOAPFault is a fault envelope returned by the service itself, as
// opposed to a transport failure reaching it.
type SOAPFault struct {
	Code   string
	Reason string
}

func (f *SOAPFault) Error() string {
	return fmt.Sprintf("SOAP fault %s: %s", f.Code, f.Reason)
}

// Client speaks the GetCertificate operation over plain net/http.
type Client struct {
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// GetCertificate posts one GetCertificate request to endpointURL and
// returns the raw GetCertificateResult string (the PEM chain). A fault
// envelope comes back as *SOAPFault; anything else is a transport error.
func (c *Client) GetCertificate(ctx context.Context, endpointURL, applicationID, userID string) (string, error) {
	env := requestEnvelope{
		EnvNS: soapEnvelope,
		Body: requestBody{
			GetCertificate: getCertificate{
				NS:            cmdNamespace,
				ApplicationID: base64.StdEncoding.EncodeToString([]byte(applicationID)),
				UserID:        userID,
			},
		},
	}
	payload, err := xml.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	payload = append([]byte(xml.Header), payload...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPAction", getCertAction)

	c.log.Debug("sending GetCertificate request",
		zap.String("endpoint", endpointURL),
		zap.Int("request_bytes", len(payload)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("received response",
		zap.Int("status", resp.StatusCode),
		zap.Int("response_bytes", len(body)))

	var rsp responseEnvelope
	if err := xml.Unmarshal(body, &rsp); err != nil {
		return "", fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if rsp.Body.Fault != nil {
		return "", &SOAPFault{Code: rsp.Body.Fault.Code, Reason: rsp.Body.Fault.Reason}
	}
	if rsp.Body.Response == nil {
		return "", fmt.Errorf("response carries no GetCertificateResponse (HTTP %d)", resp.StatusCode)
	}
	return rsp.Body.Response.Result, nil
}
