package commonModels

import "time"

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	RelPath             string    `json:"rel_path"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

type DocChunk struct {
	Doc            Document
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	SectionNum     int    `json:"section_num"`
	ChunkPageOrder int    `json:"chunk_order"`
	EmbeddingModel string `json:"embeddingModel"`
}

type DocType string

var MARKDOWN DocType = "MARKDOWN"
var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var ERR DocType = "ERROR"
