package entities

import "errors"

// Erros de domínio retornados pelos repositórios quando um id não existe.
// Qualquer outra falha do store (conexão, timeout) propaga inalterada.
var (
	ErrSurveyNotFound   = errors.New("survey não encontrada")
	ErrFacilityNotFound = errors.New("facility não encontrada")
	ErrTemplateNotFound = errors.New("template não encontrado")
	ErrQuestionNotFound = errors.New("pergunta de template não encontrada")
)
