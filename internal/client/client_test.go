package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/team-service/internal/api/dto"
	httptransport "github.com/spec-kit/team-service/internal/api/http"
	"github.com/spec-kit/team-service/internal/api/http/handlers"
	"github.com/spec-kit/team-service/internal/events"
	"github.com/spec-kit/team-service/internal/persistence"
	"github.com/spec-kit/team-service/internal/repository/memory"
	"github.com/spec-kit/team-service/internal/service"
)

func newServer(t *testing.T) *Client {
	t.Helper()

	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewActivityService(dispatcher, nil, nil, zap.NewNop()).RegisterHandlers()
	teams := service.NewTeamService(service.TeamDependencies{
		TeamRepo:   store.Teams(),
		MemberRepo: store.Members(),
		Dispatcher: dispatcher,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler("team-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Teams:   handlers.NewTeamsHandler(teams),
		Members: handlers.NewMembersHandler(teams),
	})

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	cli, err := New(srv.URL)
	require.NoError(t, err)
	return cli
}

func TestClientEndToEnd(t *testing.T) {
	ctx := context.Background()
	cli := newServer(t)

	eng, err := cli.CreateTeam(ctx, dto.TeamCreateRequest{Name: "Eng"})
	require.NoError(t, err)

	bob, err := cli.AddMember(ctx, eng.ID, dto.MemberCreateRequest{Name: "Bob", Email: "bob@x.com"})
	require.NoError(t, err)
	require.Equal(t, eng.ID, bob.TeamID)

	detail, err := cli.GetTeam(ctx, eng.ID)
	require.NoError(t, err)
	require.Equal(t, 1, detail.MemberCount)
	require.Len(t, detail.Members, 1)
	require.Equal(t, "Bob", detail.Members[0].Name)

	role := "Lead"
	updated, err := cli.UpdateMember(ctx, bob.ID, dto.MemberUpdateRequest{Role: &role})
	require.NoError(t, err)
	require.Equal(t, "Lead", updated.Role)

	teams, err := cli.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)

	require.NoError(t, cli.DeleteTeam(ctx, eng.ID))

	_, err = cli.GetTeam(ctx, eng.ID)
	require.True(t, IsNotFound(err))
	require.EqualError(t, err, "team not found")
}

func TestClientMapsServerErrors(t *testing.T) {
	ctx := context.Background()
	cli := newServer(t)

	_, err := cli.CreateTeam(ctx, dto.TeamCreateRequest{Name: " "})
	require.Equal(t, KindValidation, KindOf(err))
	require.EqualError(t, err, "team name is required")

	_, err = cli.AddMember(ctx, 42, dto.MemberCreateRequest{Name: "Bob", Email: "bob@x.com"})
	require.Equal(t, KindNotFound, KindOf(err))

	err = cli.DeleteMember(ctx, 42)
	require.Equal(t, KindNotFound, KindOf(err))
	require.EqualError(t, err, "member not found")
}

func TestClientFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	cli, err := New(srv.URL)
	require.NoError(t, err)

	_, err = cli.ListTeams(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindRequestFailure, apiErr.Kind)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "Request failed", apiErr.Message)
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cli, err := New(url, WithTimeout(time.Second))
	require.NoError(t, err)

	err = cli.DeleteTeam(context.Background(), 1)
	require.Equal(t, KindRequestFailure, KindOf(err))
	require.EqualError(t, err, "Request failed")
}

func TestNewNormalisesBaseURL(t *testing.T) {
	cli, err := New(" 127.0.0.1:9000/ ")
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9000", cli.baseURL)

	cli, err = New("")
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8080", cli.baseURL)
}

func TestWithTimeoutLeavesCallerClientUntouched(t *testing.T) {
	shared := &http.Client{Timeout: 42 * time.Second}

	cli, err := New("http://127.0.0.1:9000", WithHTTPClient(shared), WithTimeout(time.Second))
	require.NoError(t, err)
	require.Equal(t, 42*time.Second, shared.Timeout)
	require.Equal(t, time.Second, cli.httpClient.Timeout)
	require.NotSame(t, shared, cli.httpClient)
}
