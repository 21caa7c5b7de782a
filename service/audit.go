package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"saldoplus/database"
	"saldoplus/models"
)

// Audit event actions
const (
	ActionLogin             = "LOGIN"
	ActionLogout            = "LOGOUT"
	ActionLoginFailed       = "LOGIN_FAILED"
	ActionBlockUser         = "BLOCK_USER"
	ActionTransactionCreate = "TRANSACTION_CREATE"
	ActionTransactionUpdate = "TRANSACTION_UPDATE"
	ActionTransactionDelete = "TRANSACTION_DELETE"
	ActionCategoryCreate    = "CATEGORY_CREATE"
	ActionCategoryDelete    = "CATEGORY_DELETE"
	ActionDataImport        = "DATA_IMPORT"
)

// RecordAudit writes one entry to the audit trail. Failures are logged and
// swallowed: the trail must never break the user action it records.
func RecordAudit(user *models.User, category, action string, details map[string]any, level string) {
	if level == "" {
		level = models.LogLevelInfo
	}

	var userID *uint
	if user != nil {
		id := user.ID
		userID = &id
	}

	var detailsJSON string
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      userID,
		Category:    category,
		Action:      action,
		Level:       level,
		Description: formatAuditMessage(user, category, action, details),
		Details:     detailsJSON,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %s/%s: %v", category, action, err)
	}
}

// formatAuditMessage renders the human-readable log line shown in the admin
// panel. Wording matches what the panel has always displayed.
func formatAuditMessage(user *models.User, category, action string, details map[string]any) string {
	userName := auditUserName(user)

	switch category {
	case models.LogCategoryAuth:
		switch action {
		case ActionLogin:
			return fmt.Sprintf("✅ %s fez login no sistema", userName)
		case ActionLogout:
			return fmt.Sprintf("🚪 %s saiu do sistema", userName)
		case ActionLoginFailed:
			target := detailString(details, "username")
			if target == "" {
				target = "usuário desconhecido"
			}
			return fmt.Sprintf("❌ Tentativa de login falhou para %s", target)
		}
	case models.LogCategoryAdmin:
		if action == ActionBlockUser {
			verb := "desbloqueou"
			if detailString(details, "action") == "bloquear" {
				verb = "bloqueou"
			}
			target := detailString(details, "target_username")
			if target == "" {
				target = "usuário"
			}
			return fmt.Sprintf("🛡️ %s %s o acesso de %s", userName, verb, target)
		}
	case models.LogCategoryFinance:
		desc := detailString(details, "description")
		if desc == "" {
			desc = "transação"
		}
		switch action {
		case ActionTransactionCreate:
			kind := "despesa"
			if detailString(details, "type") == models.TypeIncome {
				kind = "receita"
			}
			msg := fmt.Sprintf("➕ %s criou %s: %s", userName, kind, desc)
			if amount, ok := details["amount"].(float64); ok {
				msg = fmt.Sprintf("%s R$ %.2f", msg, amount)
			}
			return msg
		case ActionTransactionUpdate:
			return fmt.Sprintf("✏️ %s editou: %s", userName, desc)
		case ActionTransactionDelete:
			return fmt.Sprintf("🗑️ %s excluiu: %s", userName, desc)
		}
	case models.LogCategoryData:
		name := detailString(details, "name")
		switch action {
		case ActionDataImport:
			return fmt.Sprintf("📥 %s restaurou um backup", userName)
		case ActionCategoryCreate:
			if name == "" {
				name = "Nova categoria"
			}
			return fmt.Sprintf("📁 %s criou a categoria: %s", userName, name)
		case ActionCategoryDelete:
			if name == "" {
				name = "Categoria"
			}
			return fmt.Sprintf("🗑️ %s excluiu a categoria: %s", userName, name)
		}
	}

	return fmt.Sprintf("%s - %s", action, userName)
}

func auditUserName(user *models.User) string {
	if user == nil {
		return "Usuário"
	}
	if user.Name != "" {
		return user.Name
	}
	if user.Email != "" {
		return strings.SplitN(user.Email, "@", 2)[0]
	}
	return user.Username
}

func detailString(details map[string]any, key string) string {
	if details == nil {
		return ""
	}
	if s, ok := details[key].(string); ok {
		return s
	}
	return ""
}
