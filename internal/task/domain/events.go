package domain

// Tipos de evento de integración que emite el servicio tras cada
// mutación exitosa. La publicación es best-effort: un fallo al publicar
// nunca revierte la escritura ni llega al caller del API.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

const TaskTopic = "task-events"
