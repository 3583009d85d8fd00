package client

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"

	"github.com/KirkDiggler/cryptea/internal/entities/traits"
	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/handlers/forge/v1alpha1"
	"github.com/KirkDiggler/cryptea/internal/orchestrators/forge"
	forgemock "github.com/KirkDiggler/cryptea/internal/orchestrators/forge/mock"
	"github.com/KirkDiggler/cryptea/internal/testutils/builders"
)

// startServer serves the forge handler on a loopback port and points the
// client flags at it.
func startServer(t *testing.T, service forge.Service) {
	t.Helper()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{ForgeService: service})
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	v1alpha1.RegisterForgeServiceServer(srv, handler)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	serverAddr = lis.Addr().String()
	timeout = 5 * time.Second
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	ClientCmd.SetOut(&out)
	ClientCmd.SetErr(&out)
	ClientCmd.SetArgs(args)
	err := ClientCmd.Execute()
	return out.String(), err
}

func TestClient_ToggleAndCompose(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := forgemock.NewMockService(ctrl)
	startServer(t, mockService)

	session := builders.NewSessionBuilder().
		WithSelection(traits.Selection{"Body": "ape.png", "Hat": ""}).
		Build()

	mockService.EXPECT().
		ToggleTrait(gomock.Any(), &forge.ToggleTraitInput{SessionID: session.ID, Category: "Body", Asset: "ape.png"}).
		Return(&forge.ToggleTraitOutput{Session: session}, nil)
	mockService.EXPECT().
		Compose(gomock.Any(), &forge.ComposeInput{SessionID: session.ID}).
		Return(&forge.ComposeOutput{
			Session:     session,
			Image:       []byte("jpeg-bytes"),
			ContentType: "image/jpeg",
			Attributes:  []traits.Attribute{{TraitType: "Body", Value: "ape.png"}},
		}, nil)

	out, err := run(t, "toggle", session.ID, "ape.png", "--category", "Body")
	require.NoError(t, err)
	assert.Contains(t, out, "Session "+session.ID+" (editing)")
	assert.Contains(t, out, "ape.png")

	path := filepath.Join(t.TempDir(), "punk.jpg")
	out, err = run(t, "compose", session.ID, "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestClient_ReportsDomainErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := forgemock.NewMockService(ctrl)
	startServer(t, mockService)

	mockService.EXPECT().
		Compose(gomock.Any(), gomock.Any()).
		Return(nil, errors.Precondition("nothing is selected"))

	_, err := run(t, "compose", "session_1", "--out", filepath.Join(t.TempDir(), "x.jpg"))
	require.Error(t, err)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Contains(t, err.Error(), "nothing is selected")
}

func TestClient_PublishAndEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := forgemock.NewMockService(ctrl)
	startServer(t, mockService)

	session := builders.NewSessionBuilder().Build()
	mockService.EXPECT().
		Publish(gomock.Any(), &forge.PublishInput{SessionID: session.ID, Name: "Punk #1"}).
		Return(&forge.PublishOutput{
			Session:  session,
			ImageURI: "cas://image",
			TokenURI: "cas://metadata",
			Metadata: &traits.Metadata{Name: "Punk #1", Image: "cas://image"},
		}, nil)
	mockService.EXPECT().
		EndSession(gomock.Any(), &forge.EndSessionInput{SessionID: session.ID}).
		Return(&forge.EndSessionOutput{CleanupScheduled: 2}, nil)

	out, err := run(t, "publish", session.ID, "--name", "Punk #1")
	require.NoError(t, err)
	assert.Contains(t, out, "Token URI: cas://metadata")
	assert.Contains(t, out, `"name": "Punk #1"`)

	out, err = run(t, "end", session.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "2 uploads queued")
}
