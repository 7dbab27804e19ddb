package api

import (
	"estudio/config"
)

// SafeErrorMessage em produção não expõe detalhes internos de erro ao cliente
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
