package ssdptransport

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func zapSocketID(id uuid.UUID) zap.Field {
	return zap.String("socket_id", id.String())
}
