package bootstrap

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/uni-mart/unimart-backend/config"
)

// OpenFirestore connects to the project's Firestore database. Credentials
// fall back to application default when no service account file is set.
func OpenFirestore(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	if cfg.Firestore.ProjectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is not set")
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}

	client, err := firestore.NewClient(cctx, cfg.Firestore.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore connect: %w", err)
	}
	return client, nil
}
