package main_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/umsys/user-management-console/internal/backend"
	"github.com/umsys/user-management-console/internal/backend/backendtest"
	"github.com/umsys/user-management-console/internal/permission"
	"github.com/umsys/user-management-console/internal/transport/web"
	"github.com/umsys/user-management-console/internal/user"
	"github.com/umsys/user-management-console/internal/view"
)

func TestUserManagementConsole(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserManagementConsole Suite")
}

var _ = Describe("User Management Console", func() {
	var (
		stub    *backendtest.Server
		console http.Handler
	)

	BeforeEach(func() {
		var err error
		stub, err = backendtest.Start()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		api := backend.NewClient(stub.Config(), logger)
		console = web.NewRouter(web.Deps{
			Logger:      logger,
			View:        view.New("templates"),
			Users:       user.NewClient(api, logger),
			Permissions: permission.NewClient(api, logger),
		})
	})

	AfterEach(func() {
		stub.Close()
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		console.ServeHTTP(rec, req)
		return rec
	}

	postForm := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		console.ServeHTTP(rec, req)
		return rec
	}

	Describe("list screen", func() {
		It("renders the seeded users with their permissions", func() {
			p := stub.SeedPermission("CAN_CREATE_USER", "Create users")
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())
			stub.SeedUser("Alan", "Turing", "alan", "alan@example.com", "active", time.Now().UTC().Add(-time.Hour))
			stub.SeedEdge(u.ID, p)

			rec := get("/")
			Expect(rec.Code).To(Equal(http.StatusOK))

			body := rec.Body.String()
			Expect(body).To(ContainSubstring("ada@example.com"))
			Expect(body).To(ContainSubstring("alan@example.com"))
			Expect(body).To(ContainSubstring("CAN_CREATE_USER"))
			Expect(body).To(ContainSubstring("&copy; " + strconv.Itoa(time.Now().Year())))
		})

		It("places the permissions column before the created date", func() {
			stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())

			body := get("/").Body.String()
			Expect(body).To(ContainSubstring(">Permissions<"))
			Expect(body).To(ContainSubstring("Date created"))
			Expect(strings.Index(body, ">Permissions<")).To(BeNumerically("<", strings.Index(body, "Date created")))
		})

		It("orders newest-first by default", func() {
			stub.SeedUser("Old", "User", "older", "old@example.com", "active", time.Now().UTC().Add(-time.Hour))
			stub.SeedUser("New", "User", "newer", "new@example.com", "active", time.Now().UTC())

			body := get("/").Body.String()
			Expect(strings.Index(body, "new@example.com")).To(BeNumerically("<", strings.Index(body, "old@example.com")))
		})

		It("honors page, size and sort carried in the URL", func() {
			for _, name := range []string{"carol", "bob", "alice"} {
				stub.SeedUser(name, "User", name, name+"@example.com", "active", time.Now().UTC())
			}

			body := get("/?page=2&size=2&sort=email&order=ascend").Body.String()
			Expect(body).To(ContainSubstring("carol@example.com"))
			Expect(body).NotTo(ContainSubstring("alice@example.com"))
		})
	})

	Describe("creating a user", func() {
		It("round-trips the form and redirects to the list", func() {
			rec := postForm("/user", url.Values{
				"firstName": {"Grace"},
				"lastName":  {"Hopper"},
				"username":  {"grace"},
				"password":  {"secret"},
				"email":     {"grace@example.com"},
				"status":    {"active"},
			})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/"))

			var stored backendtest.User
			Expect(stub.DB.First(&stored, "username = ?", "grace").Error).NotTo(HaveOccurred())
			Expect(stored.Email).To(Equal("grace@example.com"))
			Expect(stored.Password).To(Equal("secret"))
		})

		It("stays on the form when a field is missing", func() {
			rec := postForm("/user", url.Values{
				"firstName": {"Grace"},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("last name is required"))
		})
	})

	Describe("editing a user", func() {
		It("merges the submitted fields and keeps the username", func() {
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())

			rec := postForm("/user/"+u.ID, url.Values{
				"firstName": {"Adelaide"},
				"lastName":  {"Lovelace"},
				"email":     {"adelaide@example.com"},
				"status":    {"inactive"},
			})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			var stored backendtest.User
			Expect(stub.DB.First(&stored, "id = ?", u.ID).Error).NotTo(HaveOccurred())
			Expect(stored.FirstName).To(Equal("Adelaide"))
			Expect(stored.Status).To(Equal("inactive"))
			Expect(stored.Username).To(Equal("ada"))
		})

		It("never echoes the password into the form", func() {
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())

			body := get("/user/" + u.ID).Body.String()
			Expect(body).NotTo(ContainSubstring("seeded-password"))
		})

		It("shows the terminal screen for an unknown id", func() {
			rec := get("/user/nope")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("User not found"))
		})
	})

	Describe("deleting a user", func() {
		It("asks for confirmation before doing anything", func() {
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())

			rec := get("/user/" + u.ID + "/delete?page=1&size=10")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(u.ID))

			var count int64
			stub.DB.Model(&backendtest.User{}).Count(&count)
			Expect(count).To(Equal(int64(1)))
		})

		It("deletes on the confirmed POST and returns to the same page", func() {
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())

			rec := postForm("/user/"+u.ID+"/delete?page=1&size=10", nil)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/?page=1&size=10"))

			var count int64
			stub.DB.Model(&backendtest.User{}).Count(&count)
			Expect(count).To(BeZero())
		})

		It("leaves an emptied last page empty rather than stepping back", func() {
			var last backendtest.User
			for i := 0; i < 11; i++ {
				last = stub.SeedUser("User", "Eleven", "user"+string(rune('a'+i)), "u@example.com", "active",
					time.Now().UTC().Add(time.Duration(i)*time.Minute))
			}

			rec := postForm("/user/"+last.ID+"/delete?page=2&size=10", nil)
			Expect(rec.Header().Get("Location")).To(Equal("/?page=2&size=10"))

			body := get("/?page=2&size=10").Body.String()
			Expect(body).To(ContainSubstring("No data"))
			Expect(body).To(ContainSubstring("10 users"))
		})
	})

	Describe("permission screen", func() {
		It("renders the catalog with the user's assignments checked", func() {
			p1 := stub.SeedPermission("CAN_CREATE_USER", "Create users")
			stub.SeedPermission("CAN_DELETE_USER", "Delete users")
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())
			stub.SeedEdge(u.ID, p1)

			rec := get("/permissions/user/" + u.ID)
			Expect(rec.Code).To(Equal(http.StatusOK))

			body := rec.Body.String()
			Expect(body).To(ContainSubstring("Create users"))
			Expect(body).To(ContainSubstring("Delete users"))
			Expect(strings.Count(body, `" checked>`)).To(Equal(1))
		})

		It("creates the edge on a checked toggle", func() {
			p := stub.SeedPermission("CAN_CREATE_USER", "Create users")
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())

			rec := postForm("/permissions/user/"+u.ID+"/toggle", url.Values{
				"permissionId": {p.ID},
				"checked":      {"true"},
			})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/permissions/user/" + u.ID))

			var edges int64
			stub.DB.Model(&backendtest.UserPermission{}).
				Where("user_id = ? AND permission_id = ?", u.ID, p.ID).
				Count(&edges)
			Expect(edges).To(Equal(int64(1)))
		})

		It("removes the edge on an unchecked toggle, idempotently", func() {
			p := stub.SeedPermission("CAN_CREATE_USER", "Create users")
			u := stub.SeedUser("Ada", "Lovelace", "ada", "ada@example.com", "active", time.Now().UTC())
			stub.SeedEdge(u.ID, p)

			form := url.Values{"permissionId": {p.ID}, "checked": {"false"}}
			Expect(postForm("/permissions/user/"+u.ID+"/toggle", form).Code).To(Equal(http.StatusSeeOther))
			Expect(postForm("/permissions/user/"+u.ID+"/toggle", form).Code).To(Equal(http.StatusSeeOther))

			var edges int64
			stub.DB.Model(&backendtest.UserPermission{}).Where("user_id = ?", u.ID).Count(&edges)
			Expect(edges).To(BeZero())
		})

		It("shows the terminal screen for an unknown id", func() {
			rec := get("/permissions/user/nope")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("unknown routes", func() {
		It("falls through to the not-found view", func() {
			rec := get("/does/not/exist")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("when the backend is unreachable", func() {
		It("still renders the list screen with a notification", func() {
			stub.Close()

			rec := get("/")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("An error occured while fetching users."))
		})
	})

})
