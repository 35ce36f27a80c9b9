package extension

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"

	"github.com/dolittle/lambda-log-forwarder/pkg/config"
)

var _ = Describe("Commands", func() {
	var logger *logrus.Logger

	BeforeEach(func() {
		viper.Reset()
		logger, _ = logrusTest.NewNullLogger()
	})

	AfterEach(func() {
		viper.Reset()
	})

	Describe("run", func() {
		var (
			runtime   *httptest.Server
			mu        sync.Mutex
			errorType string
			subscribe bool
		)

		BeforeEach(func() {
			errorType = ""
			subscribe = false
			runtime = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				defer mu.Unlock()
				switch r.URL.Path {
				case "/2020-01-01/extension/register":
					w.Header().Set("Lambda-Extension-Identifier", "ext-1")
					w.Write([]byte(`{}`))
				case "/2020-01-01/extension/init/error":
					errorType = r.Header.Get("Lambda-Extension-Function-Error-Type")
					w.WriteHeader(http.StatusAccepted)
				case "/2020-08-15/logs":
					subscribe = true
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))

			viper.Set(config.KeyRuntimeAPI, strings.TrimPrefix(runtime.URL, "http://"))
			viper.Set(config.KeyExtensionName, "log-forwarder")
			viper.Set(config.KeyStreamBackend, config.BackendStdout)
			viper.Set(config.KeyListenerPort, 9002)
			viper.Set(config.KeyMaxItems, 1000)
			viper.Set(config.KeyMaxBytes, 262144)
			viper.Set(config.KeyTimeoutMs, 1000)
		})

		AfterEach(func() {
			runtime.Close()
		})

		It("never becomes ready without a stream name", func() {
			err := run(context.Background(), logger)

			Expect(err).To(Equal(config.ErrMissingStreamName))
			Expect(errorType).To(Equal("Extension.ConfigError"))
			Expect(subscribe).To(BeFalse())
		})
	})

	Describe("replay", func() {
		var path string

		BeforeEach(func() {
			dir, err := ioutil.TempDir("", "replay")
			Expect(err).ToNot(HaveOccurred())
			path = filepath.Join(dir, "batch.json")

			viper.Set(config.KeyStreamName, "lambda-logs")
			viper.Set(config.KeyStreamBackend, config.BackendStdout)
		})

		AfterEach(func() {
			os.RemoveAll(filepath.Dir(path))
		})

		It("forwards a saved batch", func() {
			err := ioutil.WriteFile(path, []byte(`[{"time": "t", "type": "function", "record": "hello"}]`), 0600)
			Expect(err).ToNot(HaveOccurred())

			Expect(replay(context.Background(), logger, path)).To(Succeed())
		})

		It("fails on a file that is not a batch", func() {
			err := ioutil.WriteFile(path, []byte(`{}`), 0600)
			Expect(err).ToNot(HaveOccurred())

			Expect(replay(context.Background(), logger, path)).ToNot(Succeed())
		})

		It("fails without a stream name", func() {
			viper.Set(config.KeyStreamName, "")

			Expect(replay(context.Background(), logger, path)).To(Equal(config.ErrMissingStreamName))
		})
	})
})
