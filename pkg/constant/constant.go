package constant

const (
	DefaultTokenType = "Bearer"

	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"

	AuditEntityAuth          = "auth"
	AuditActionTokenReuse    = "TOKEN_REUSE_DETECTED"
	AuditActionSessionsWiped = "SESSIONS_REVOKED"

	ReasonRevokedTokenPresented = "revoked_token_presented"
	ReasonTokenHashMismatch     = "token_hash_mismatch"
)
