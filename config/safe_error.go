package config

// SafeErrorMessage em modo release não expõe detalhes internos do erro ao
// cliente; em desenvolvimento devolve a mensagem original.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
