// Package fuzztests houses Go fuzz harnesses for the brace pipeline
// (raw bytes -> source.FileSet -> braces.Report). They guard against panics
// and hangs on arbitrary input and check the scan result invariants.
//
// Назначение: загружать байты в FileSet и прогонять их через сканер и
// репортер диагностик.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/braces, internal/diag,
// internal/testkit.

package fuzztests
