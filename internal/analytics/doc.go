// Package analytics чистые вычисления над снимком записей:
// сводка по оплатам, ближайшие платежи, места в тесте и статистика теста.
//
// Пакет не ходит в хранилище. Вызывающий на каждый запрос читает свежий
// снимок и передаёт его вместе с текущим временем.
package analytics
