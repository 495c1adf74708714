package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, sessionSecret string, sessionExpiry time.Duration, attachments portsrepo.AttachmentSigner) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Collections: NewCollectionRepository(dbPool),
		Identity:    NewIdentityRepository(dbPool, sessionSecret, sessionExpiry),
		Attachments: attachments,
	}
}
