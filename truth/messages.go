package truth

import "fmt"

const (
	imageTemplate = "Imagem analisada. Veracidade: %d%%."
	videoTemplate = "Vídeo analisado. Veracidade: %d%%."
	textTemplate  = "Texto analisado: %s"
)

// User-visible placeholder and error messages.
const (
	MsgNoVerification    = "Nenhuma verificação encontrada para o texto fornecido."
	MsgUnsupportedFormat = "Formato de arquivo não suportado."
	MsgNoContent         = "Nenhum conteúdo fornecido."
	MsgDecodeFailed      = "Não foi possível ler o arquivo enviado."
	MsgNetworkFailed     = "Falha ao consultar o serviço de verificação."
	MsgBadResponse       = "Resposta inválida do serviço de verificação."
	MsgNotConfigured     = "Serviço de verificação não configurado."
	MsgTooLarge          = "Arquivo excede o tamanho máximo permitido."
	MsgInternal          = "Erro interno ao analisar o conteúdo."
)

// TextMessage renders the verifier output with the text template.
func TextMessage(verdict string) string {
	return fmt.Sprintf(textTemplate, verdict)
}

// ClaimVerdict formats a claim and its rating.
func ClaimVerdict(claim, rating string) string {
	return fmt.Sprintf("%s - Veracidade: %s", claim, rating)
}

// UserMessage converts any error into the message shown to the caller.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindUnsupportedFormat:
		return MsgUnsupportedFormat
	case KindEmptyInput:
		return MsgNoContent
	case KindDecode:
		return MsgDecodeFailed
	case KindNetwork:
		return MsgNetworkFailed
	case KindFormat:
		return MsgBadResponse
	case KindConfig:
		return MsgNotConfigured
	default:
		return MsgInternal
	}
}
