package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/vector"
	"github.com/litemindhq/litemind/pkg/vector/chroma"
	"github.com/litemindhq/litemind/pkg/vector/qdrant"
	"github.com/litemindhq/litemind/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	TargetURL    string
	DBPath       string
	Collection   string
	Dimensions   uint

	// CreateIfMissing is set on the ingestion path so the backing
	// collection or database file is created on first use. The query path
	// leaves it false and gets vector.ErrNotFound for a missing index.
	CreateIfMissing bool

	Logger *zap.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:          o.DBPath,
			Dimensions:      o.Dimensions,
			CreateIfMissing: o.CreateIfMissing,
		}, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:             o.TargetURL,
			CollectionName:  o.Collection,
			CreateIfMissing: o.CreateIfMissing,
		}, o.Logger)
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			Addr:            o.TargetURL,
			CollectionName:  o.Collection,
			Dimensions:      o.Dimensions,
			CreateIfMissing: o.CreateIfMissing,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
