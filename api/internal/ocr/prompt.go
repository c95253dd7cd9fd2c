package ocr

// MaxOutputTokens caps the model answer for every engine.
const MaxOutputTokens = 1000

// Prompt asks for the eleven fields of a notice as a single JSON object.
const Prompt = `Analise esta imagem de multa de trânsito e extraia as seguintes informações em formato JSON:
{
  "tipo": "tipo da infração (ex: Excesso de velocidade, Estacionamento irregular, etc)",
  "infracao": "código da infração",
  "valor": valor em reais (número),
  "pontos": pontos na CNH (número),
  "local": "local da infração",
  "data": "data da infração (formato DD/MM/YYYY)",
  "placa": "placa do veículo",
  "veiculo": "modelo e marca do veículo",
  "condutor": "nome do condutor se visível",
  "observacoes": "observações relevantes sobre a multa",
  "gravidade": "leve, media, grave ou gravissima"
}

Responda somente com um único objeto JSON, sem texto fora dele.
Se não conseguir identificar algum campo, use valores padrão razoáveis baseados no contexto da imagem. Seja preciso e detalhado nas observações.`

// PromptFields lists the keys Prompt requests, in order.
var PromptFields = []string{
	"tipo", "infracao", "valor", "pontos", "local", "data",
	"placa", "veiculo", "condutor", "observacoes", "gravidade",
}
