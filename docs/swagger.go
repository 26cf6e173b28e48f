// Package docs Road Damage Report API.
//
// Бэкенд мобильного приложения для жалоб граждан на повреждения дорог.
// Ведёт пошаговый визард подачи отчёта (режим, фото, локация,
// AI-классификация, подтверждение), назначает отчётам административную
// зону по ближайшему центроиду и считает Road Health Index по зонам.
//
// Основные возможности:
// - Пошаговый визард подачи отчёта с идемпотентной отправкой
// - Назначение зоны по ближайшему центроиду (Haversine)
// - Делегирование классификации фото внешнему YOLO-бэкенду
// - Загрузка фото в облачное object storage
// - Списки отчётов, триаж статусов, аналитика Road Health Index
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//	- multipart/form-data
//
//	Produces:
//	- application/json
//
//	Security:
//	- api_key:
//
//	SecurityDefinitions:
//	api_key:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs
