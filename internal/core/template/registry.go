package template

import (
	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/models"
)

// registry is the full notification template table. Kinds absent from this
// table (e.g. CONTRACT_SIGNED, OBJECT_STATUS_CHANGE) are audit-only: firing
// them creates no notifications.
var registry = map[event.Kind]Template{
	// ── Task events ──
	event.TaskAssigned: {
		Priority: models.PriorityNormal, Category: models.CategoryTasks,
		Title: "🔧 ЗАДАЧА: {task_title}",
		Body:  "Назначена вам на объекте «{object_name}». Срок: {deadline}",
		Actions: []models.Action{
			{Key: "accept", Label: "▶️ Принять", Style: "primary"},
			{Key: "question", Label: "❓ Вопрос РП", Style: "default"},
		},
		DeepLink: "/objects/{object_id}?tab=tasks&task={entity_id}",
	},
	event.TaskCompleted: {
		Priority: models.PriorityNormal, Category: models.CategoryTasks,
		Title: "✅ Задача выполнена: {task_title}",
		Body:  "Исполнитель: {executor_name}. Требуется проверка.",
		Actions: []models.Action{
			{Key: "approve", Label: "✅ Принять", Style: "success"},
			{Key: "reject", Label: "↩️ Вернуть", Style: "danger"},
		},
	},
	event.TaskOverdue: {
		Priority: models.PriorityHigh, Category: models.CategoryTasks,
		Title: "🔴 ПРОСРОЧКА: {task_title}",
		Body:  "Просрочена на {overdue_days} дн. Объект «{object_name}».",
		Actions: []models.Action{
			{Key: "extend", Label: "📅 Перенести", Style: "default"},
			{Key: "escalate", Label: "⬆️ Эскалация", Style: "danger"},
		},
	},
	event.TaskBlocked: {
		Priority: models.PriorityHigh, Category: models.CategoryTasks,
		Title: "⛔ БЛОКИРОВКА: {task_title}",
		Body:  "Причина: {block_reason}. Требуется арбитраж.",
		Actions: []models.Action{
			{Key: "resolve", Label: "🔧 Решить", Style: "primary"},
			{Key: "escalate", Label: "⬆️ Эскалировать", Style: "danger"},
		},
	},

	// ── GPR events ──
	event.GPRSignRequest: {
		Priority: models.PriorityHigh, Category: models.CategoryGPR,
		Title: "📋 Подписание ГПР: {object_name}",
		Body:  "Руководитель проекта направил ГПР v{gpr_version} на подписание.",
		Actions: []models.Action{
			{Key: "sign", Label: "✍️ Подписать", Style: "success"},
			{Key: "comment", Label: "💬 Замечания", Style: "default"},
		},
	},
	event.GPRSigned: {
		Priority: models.PriorityNormal, Category: models.CategoryGPR,
		Title: "✍️ ГПР подписан: {signer_name}",
		Body:  "Подписал раздел «{department_name}» объекта «{object_name}».",
	},
	event.GPRSignedByAll: {
		Priority: models.PriorityHigh, Category: models.CategoryGPR,
		Title:    "🎉 ГПР утверждён: {object_name}",
		Body:     "Все отделы подписали. Объект переведён в ACTIVE. Задачи активированы.",
		DeepLink: "/objects/{object_id}?tab=gpr",
	},

	// ── Supply events ──
	event.SupplyDelayed: {
		Priority: models.PriorityHigh, Category: models.CategorySupply,
		Title: "⚠️ Задержка поставки: {material_name}",
		Body: "Задержка на {delay_days} дн. Объект «{object_name}». " +
			"Каскадное влияние: затронуто {affected_tasks} задач.",
		Actions: []models.Action{
			{Key: "accept_shift", Label: "Принять сдвиг", Style: "default"},
			{Key: "find_alt", Label: "🔍 Альт. поставщик", Style: "primary"},
			{Key: "escalate", Label: "⬆️ Эскалация", Style: "danger"},
		},
	},
	event.MaterialShipped: {
		Priority: models.PriorityNormal, Category: models.CategorySupply,
		Title: "🚛 ОТГРУЗКА: {material_name}",
		Body: "Партия {batch_number}, Машина {vehicle}. " +
			"Ожидайте на площадке «{object_name}»!",
		Actions: []models.Action{
			{Key: "received", Label: "✅ Принял", Style: "success"},
			{Key: "not_arrived", Label: "❌ Не прибыла", Style: "danger"},
		},
	},
	event.MaterialReceived: {
		Priority: models.PriorityLow, Category: models.CategorySupply,
		Title: "📦 Материал принят: {material_name}",
		Body:  "ТТН зафиксирована. Объект «{object_name}». Остатки обновлены.",
	},

	// ── Construction events ──
	event.ConstructionStageDone: {
		Priority: models.PriorityNormal, Category: models.CategoryConstruction,
		Title: "🏗 Этап завершён: {stage_name}",
		Body:  "Объект «{object_name}», {zone}. Следующий этап разблокирован.",
		Actions: []models.Action{
			{Key: "accept_stage", Label: "✅ Принять", Style: "success"},
			{Key: "reject_stage", Label: "❌ Замечания", Style: "danger"},
		},
	},
	event.DefectReported: {
		Priority: models.PriorityCritical, Category: models.CategoryConstruction,
		Title: "🔴 ДЕФЕКТ: {defect_title}",
		Body: "Объект «{object_name}», {zone}. Захватка заблокирована. " +
			"Фото прикреплено.",
		Actions: []models.Action{
			{Key: "assign_fix", Label: "🔧 Назначить", Style: "primary"},
			{Key: "view_photo", Label: "📷 Фото", Style: "default"},
		},
	},
	event.KMDIssued: {
		Priority: models.PriorityNormal, Category: models.CategoryConstruction,
		Title: "📐 КМД выданы: {object_name}",
		Body:  "Конструктор завершил разработку. Производство может начать изготовление.",
		Actions: []models.Action{
			{Key: "start_production", Label: "🏭 Начать", Style: "success"},
		},
	},

	// ── Scheduled ──
	event.PlanFactRequest: {
		Priority: models.PriorityNormal, Category: models.CategoryTasks,
		Title: "📊 Заполните План-Факт",
		Body:  "Ежедневный отчёт по объекту «{object_name}». Дедлайн: 20:00.",
		Actions: []models.Action{
			{Key: "fill_report", Label: "📝 Заполнить", Style: "primary"},
		},
		DeepLink: "/objects/{object_id}?tab=planfact",
	},
	event.PlanFactOverdue: {
		Priority: models.PriorityHigh, Category: models.CategoryTasks,
		Title: "⏰ План-Факт не заполнен!",
		Body: "Отчёт по объекту «{object_name}» просрочен. " +
			"Следующий уровень: эскалация руководителю.",
		Actions: []models.Action{
			{Key: "fill_report", Label: "📝 Заполнить сейчас", Style: "danger"},
		},
	},
	event.WeeklyAudit: {
		Priority: models.PriorityNormal, Category: models.CategorySystem,
		Title: "📋 Еженедельный аудит",
		Body: "Чек-лист контроля качества для объекта «{object_name}». " +
			"Заполните до конца дня.",
		Actions: []models.Action{
			{Key: "start_audit", Label: "📋 Начать", Style: "primary"},
		},
	},
	event.DeadlineApproaching: {
		Priority: models.PriorityNormal, Category: models.CategoryTasks,
		Title: "📅 Дедлайн завтра: {task_title}",
		Body:  "Срок задачи на объекте «{object_name}» истекает {deadline}.",
		Actions: []models.Action{
			{Key: "open_task", Label: "📋 Открыть", Style: "primary"},
		},
		DeepLink: "/objects/{object_id}?tab=tasks&task={entity_id}",
	},

	// ── Escalation ──
	event.EscalationL1: {
		Priority: models.PriorityHigh, Category: models.CategoryEscalation,
		Title: "⏰ Напоминание: {original_title}",
		Body: "Вы не отреагировали на задачу за {hours}ч. " +
			"Следующий уровень: уведомление руководителю.",
		EscalationLevel: 1,
		Actions: []models.Action{
			{Key: "respond_now", Label: "💬 Ответить", Style: "primary"},
		},
	},
	event.EscalationL2: {
		Priority: models.PriorityCritical, Category: models.CategoryEscalation,
		Title: "⚠️ ЭСКАЛАЦИЯ: {original_title}",
		Body: "Исполнитель: {executor_name}. " +
			"Нет ответа {hours}ч. Требуется ваше вмешательство.",
		EscalationLevel: 2,
		Actions: []models.Action{
			{Key: "intervene", Label: "🔧 Вмешаться", Style: "danger"},
			{Key: "reassign", Label: "👤 Переназначить", Style: "default"},
		},
	},
	event.EscalationL3: {
		Priority: models.PriorityCritical, Category: models.CategoryEscalation,
		Title: "🔴 КРИТИЧЕСКАЯ ЭСКАЛАЦИЯ → Директорат",
		Body: "Дайджест красной зоны. Объект «{object_name}»: " +
			"{blocked_count} блокировок, {overdue_count} просрочек.",
		EscalationLevel: 3,
		Actions: []models.Action{
			{Key: "view_digest", Label: "📊 Дайджест", Style: "danger"},
		},
	},

	// ── Cascade ──
	event.CascadeShift: {
		Priority: models.PriorityHigh, Category: models.CategorySupply,
		Title: "🔄 Каскадный сдвиг ГПР: {object_name}",
		Body: "Задержка «{trigger_material}» на {delay_days} дн. " +
			"Пересчитано: {affected_tasks} задач сдвинуты.",
		Actions: []models.Action{
			{Key: "accept_shift", Label: "✅ Принять", Style: "primary"},
			{Key: "adjust_gpr", Label: "📅 Скорректировать ГПР", Style: "default"},
			{Key: "escalate", Label: "⬆️ Эскалация", Style: "danger"},
		},
	},
}
