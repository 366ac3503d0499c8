// Package fuzztests houses Go fuzz harnesses that exercise the front of
// the analysis pipeline (source -> lexer -> parser). Its goal is to smoke
// test robustness and guard against panics, hangs and span corruption on
// arbitrary inputs.
//
// Назначение: загружать байты в Store и прогонять их через лексер и
// парсер, проверяя инварианты спанов построенного дерева.
//
// Не делает: генерацию корпусов, запись файлов, семантический анализ.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/diag, internal/testkit.

package fuzztests
