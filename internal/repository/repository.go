// Package repository implements the persisted collections of the
// reconciliation layer on top of the key/value adapter. Every collection is
// serialized as a whole under a single key, so each mutation is a
// read-modify-write of the full value; callers serialize mutations (the
// service layer holds one mutex across every flow).
package repository

// Persisted key space. The names match the remote service's historical
// contract and must not change, or existing installations lose their data.
// KeyStaged is device-local only: photos captured but not yet bound to a
// finalized record, kept durable so a restart between capture and finalize
// does not lose them.
const (
	KeyUser        = "usuario"
	KeyUserID      = "usuario_id"
	KeyRecords     = "distDatos"
	KeyAttachments = "imagenes_subir"
	KeyStaged      = "imagenes_tomadas"
	KeyDirty       = "info_por_guardar"
)
