package extension

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client talks to the Extensions API and Logs API of the Lambda runtime.
type Client struct {
	logContext  logrus.FieldLogger
	baseURL     string
	httpClient  *http.Client
	extensionID string
}

// NewClient takes the value of AWS_LAMBDA_RUNTIME_API (host:port).
func NewClient(logContext logrus.FieldLogger, runtimeAPI string, httpClient *http.Client) *Client {
	if httpClient == nil {
		// next event long-polls, so no client timeout
		httpClient = &http.Client{}
	}
	return &Client{
		logContext: logContext,
		baseURL:    fmt.Sprintf("http://%s", runtimeAPI),
		httpClient: httpClient,
	}
}

func (c *Client) ExtensionID() string {
	return c.extensionID
}

func (c *Client) Register(ctx context.Context, name string) (*RegisterResponse, error) {
	body, err := json.Marshal(map[string][]EventType{
		"events": {Invoke, Shutdown},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.extensionURL("register"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set(extensionNameHeader, name)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "register extension")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("register extension", resp)
	}

	var registered RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&registered); err != nil {
		return nil, errors.Wrap(err, "decoding register response")
	}

	c.extensionID = resp.Header.Get(extensionIdentifierHeader)
	if c.extensionID == "" {
		return nil, errors.New("register extension: no extension identifier in response")
	}

	c.logContext.WithFields(logrus.Fields{
		"extension_name":   name,
		"function_name":    registered.FunctionName,
		"function_version": registered.FunctionVersion,
	}).Info("extension registered")
	return &registered, nil
}

// NextEvent blocks until the runtime has an event for the extension.
func (c *Client) NextEvent(ctx context.Context) (*NextEventResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.extensionURL("event/next"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(extensionIdentifierHeader, c.extensionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "next event")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("next event", resp)
	}

	var event NextEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, errors.Wrap(err, "decoding next event")
	}
	return &event, nil
}

func (c *Client) InitError(ctx context.Context, errorType string, cause error) error {
	return c.reportError(ctx, "init/error", errorType, cause)
}

func (c *Client) ExitError(ctx context.Context, errorType string, cause error) error {
	return c.reportError(ctx, "exit/error", errorType, cause)
}

func (c *Client) SubscribeLogs(ctx context.Context, subscription SubscribeRequest) error {
	if subscription.SchemaVersion == "" {
		subscription.SchemaVersion = logsSchemaVersion
	}

	body, err := json.Marshal(subscription)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/logs", c.baseURL, logsAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(extensionIdentifierHeader, c.extensionID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "subscribe to logs")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("subscribe to logs", resp)
	}

	c.logContext.WithFields(logrus.Fields{
		"types":       subscription.Types,
		"destination": subscription.Destination.URI,
		"buffering":   subscription.Buffering,
	}).Info("subscribed to logs")
	return nil
}

func (c *Client) reportError(ctx context.Context, path string, errorType string, cause error) error {
	body, err := json.Marshal(errorRequest{
		ErrorMessage: cause.Error(),
		ErrorType:    errorType,
		StackTrace:   []string{},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.extensionURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(extensionIdentifierHeader, c.extensionID)
	req.Header.Set(extensionErrorTypeHeader, errorType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "report %s", path)
	}
	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return statusError("report "+path, resp)
	}
	return nil
}

func (c *Client) extensionURL(path string) string {
	return fmt.Sprintf("%s/%s/extension/%s", c.baseURL, extensionAPIVersion, path)
}

func statusError(action string, resp *http.Response) error {
	b, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 4096))
	return errors.Errorf("%s: unexpected status %d: %s", action, resp.StatusCode, string(b))
}
