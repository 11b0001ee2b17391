package service

import "errors"

// Kind 错误类别，由接入层映射为 HTTP 状态码
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidCredential
)

// Error 面向用户的业务错误，Message 可直接展示
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation 构造字段校验错误
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

var (
	ErrUnauthenticated = &Error{KindUnauthenticated, "Acesso negado!"}
	ErrForbidden       = &Error{KindForbidden, "Ocorreu um erro, por favor tente novamente mais tarde."}

	ErrEmailTaken       = &Error{KindConflict, "Por favor, utilize outro e-mail."}
	ErrUserNotFound     = &Error{KindNotFound, "Usuário não encontrado."}
	ErrInvalidPassword  = &Error{KindInvalidCredential, "Senha inválida"}
	ErrFollowSelf       = &Error{KindValidation, "Você não pode seguir a si mesmo."}
	ErrAlreadyFollowing = &Error{KindConflict, "Usuário já está sendo seguido"}
	ErrNotFollowing     = &Error{KindConflict, "Usuário já foi deixado de seguir"}

	ErrPostNotFound    = &Error{KindNotFound, "Post não encontrado."}
	ErrAlreadyLiked    = &Error{KindConflict, "Você já curtiu a foto."}
	ErrNotLiked        = &Error{KindConflict, "Você ainda não curtiu a foto."}
	ErrAlreadySaved    = &Error{KindConflict, "Você já salvou este post."}
	ErrNotSaved        = &Error{KindConflict, "Você ainda não salvou este post."}
	ErrTitleRequired   = &Error{KindValidation, "A descrição é obrigatória."}
	ErrImageRequired   = &Error{KindValidation, "A imagem é obrigatória."}
	ErrCommentRequired = &Error{KindValidation, "O comentário é obrigatório"}
)

// KindOf 返回业务错误类别；非业务错误返回 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
