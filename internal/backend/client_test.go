package backend_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/internal/backend"
	"github.com/umsys/user-management-console/internal/notify"
)

func TestBackendClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Backend Client Suite")
}

// recordingNotifier captures notices for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	errors    []string
	kinds     []internal.ErrorKind
	successes []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(kind internal.ErrorKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func (n *recordingNotifier) Kinds() []internal.ErrorKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]internal.ErrorKind(nil), n.kinds...)
}

func configFor(server *httptest.Server) internal.BackendConfig {
	u, err := url.Parse(server.URL)
	Expect(err).NotTo(HaveOccurred())
	port, err := strconv.Atoi(u.Port())
	Expect(err).NotTo(HaveOccurred())
	return internal.BackendConfig{Protocol: u.Scheme, Host: u.Hostname(), Port: port}
}

var _ = Describe("Backend Client", func() {
	var (
		notifier *recordingNotifier
		ctx      context.Context
		logger   *slog.Logger
	)

	BeforeEach(func() {
		notifier = &recordingNotifier{}
		ctx = notify.WithNotifier(context.Background(), notifier)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	Describe("Get", func() {
		It("serializes query parameters onto the path", func() {
			var gotURL string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotURL = r.URL.String()
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"statusCode":200,"message":"ok","data":[]}`))
			}))
			defer server.Close()

			client := backend.NewClient(configFor(server), logger)
			query := backend.ListParams{Limit: 10, Page: 0, SortKey: "createdAt", SortOrder: backend.SortDesc}.Values()
			resp, err := client.Get(ctx, "/users", query)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.OK()).To(BeTrue())
			Expect(gotURL).To(Equal("/users/?limit=10&page=0&sortKey=createdAt&sortOrder=DESC"))
		})

		It("issues a plain path when no query is given", func() {
			var gotURL string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotURL = r.URL.String()
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"statusCode":200,"message":"ok","data":{}}`))
			}))
			defer server.Close()

			client := backend.NewClient(configFor(server), logger)
			_, err := client.Get(ctx, "/users/abc", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotURL).To(Equal("/users/abc"))
		})

		It("attaches a request id header", func() {
			var gotHeader string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get("X-Request-ID")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"statusCode":200,"message":"ok","data":{}}`))
			}))
			defer server.Close()

			client := backend.NewClient(configFor(server), logger)
			_, err := client.Get(ctx, "/users/abc", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotHeader).NotTo(BeEmpty())
		})
	})

	Describe("non-success responses", func() {
		It("notifies once and passes the response through unchanged", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"statusCode":400,"message":"validation failed","data":null}`))
			}))
			defer server.Close()

			client := backend.NewClient(configFor(server), logger)
			resp, err := client.Post(ctx, "/users", map[string]string{"username": ""})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.OK()).To(BeFalse())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(string(resp.Body)).To(ContainSubstring("validation failed"))
			Expect(notifier.Errors()).To(Equal([]string{"An error occured. Please try again!"}))
			Expect(notifier.Kinds()).To(Equal([]internal.ErrorKind{internal.ErrorKindRejected}))
		})

		It("treats 204 as success without notifying", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			client := backend.NewClient(configFor(server), logger)
			resp, err := client.Delete(ctx, "/users/abc", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.OK()).To(BeTrue())
			Expect(notifier.Errors()).To(BeEmpty())
		})
	})

	Describe("transport failures", func() {
		It("returns a network-kind error", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			client := backend.NewClient(configFor(server), logger)
			resp, err := client.Get(ctx, "/users", nil)
			Expect(err).To(HaveOccurred())
			Expect(resp).To(BeNil())
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorKindNetwork))
		})
	})

	Describe("request bodies", func() {
		It("sends JSON with content type on DELETE", func() {
			var gotContentType, gotBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotContentType = r.Header.Get("Content-Type")
				raw, _ := io.ReadAll(r.Body)
				gotBody = string(raw)
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			client := backend.NewClient(configFor(server), logger)
			_, err := client.Delete(ctx, "/user-permission/u1", map[string]string{"permissionId": "p1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(gotContentType).To(Equal("application/json"))
			Expect(gotBody).To(MatchJSON(`{"permissionId":"p1"}`))
		})
	})

	Describe("Response.Decode", func() {
		It("unwraps the data field of the envelope", func() {
			resp := &backend.Response{
				StatusCode: http.StatusOK,
				Body:       []byte(`{"statusCode":200,"message":"ok","data":{"id":"u1"}}`),
			}
			var out struct {
				ID string `json:"id"`
			}
			Expect(resp.Decode(&out)).To(Succeed())
			Expect(out.ID).To(Equal("u1"))
		})

		It("fails when the envelope carries no data", func() {
			resp := &backend.Response{
				StatusCode: http.StatusOK,
				Body:       []byte(`{"statusCode":200,"message":"ok"}`),
			}
			var out map[string]any
			Expect(resp.Decode(&out)).NotTo(Succeed())
		})
	})
})
