package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/reencrypt"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	InitUser(ctx context.Context, userID, email, name string) (bool, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type credentialSvc interface {
	Verify(ctx context.Context, userID, password string) (bool, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error)
	JobStatus(ctx context.Context, userID, jobID string) (reencrypt.Snapshot, error)
	ListJobs(ctx context.Context, userID string) []reencrypt.Snapshot
}

type fileSvc interface {
	UploadEncrypted(ctx context.Context, userID string, u *services.EncryptedUpload) (*models.File, error)
	EncryptAndUpload(ctx context.Context, userID, fileName, mimeType string, plaintext []byte, password string) (*models.File, error)
	Download(ctx context.Context, userID, fileID string) (*models.File, []byte, error)
	DownloadAndDecrypt(ctx context.Context, userID, fileID, password string) (*models.File, []byte, error)
	List(ctx context.Context, userID string) ([]*models.File, error)
	Delete(ctx context.Context, userID, fileID string) error
}

type googleSvc interface {
	AuthURL(ctx context.Context, userID string) (string, string, error)
	Connect(ctx context.Context, userID, code string) error
	Status(ctx context.Context, userID string) (services.GoogleStatus, error)
	Disconnect(ctx context.Context, userID string) error
}

// Services bundles the application services the gRPC layer fronts.
type Services struct {
	Users       userSvc
	Credentials credentialSvc
	Files       fileSvc
	Google      googleSvc
}

type GRPCServer struct {
	address     string
	users       userSvc
	credentials credentialSvc
	files       fileSvc
	google      googleSvc
	logger      logging.Logger
	jwtSecret   []byte
}

var _ rpc.VaultServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		users:       svc.Users,
		credentials: svc.Credentials,
		files:       svc.Files,
		google:      svc.Google,
		jwtSecret:   []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterVaultServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
