package storage

// Schema contains the SQL statements to create the observation table.
const Schema = `
CREATE TABLE IF NOT EXISTS observations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Taxonomy and collection metadata
    nombre_cientifico TEXT NOT NULL DEFAULT '',
    nombre_comun TEXT NOT NULL DEFAULT '',
    codigo_muestra TEXT NOT NULL DEFAULT '',
    proyecto TEXT NOT NULL DEFAULT '',
    municipio TEXT NOT NULL DEFAULT '',
    grupo_biologico TEXT NOT NULL DEFAULT '',
    tipo_hidrobiota TEXT NOT NULL DEFAULT '',
    fecha_colecta TIMESTAMP,

    -- Raw projected coordinates and their source reference system.
    -- Never updated after ingest; WGS84 values are derived per request.
    coord_este REAL,
    coord_norte REAL,
    codigo_epsg INTEGER
);

CREATE INDEX IF NOT EXISTS idx_observations_municipio ON observations(municipio);
CREATE INDEX IF NOT EXISTS idx_observations_proyecto ON observations(proyecto);
CREATE INDEX IF NOT EXISTS idx_observations_nombre_cientifico ON observations(nombre_cientifico);
CREATE INDEX IF NOT EXISTS idx_observations_fecha_colecta ON observations(fecha_colecta);
`

// selectColumns is the fixed column list scanned into a Record.
const selectColumns = `id, nombre_cientifico, nombre_comun, codigo_muestra, proyecto,
	municipio, grupo_biologico, tipo_hidrobiota, fecha_colecta,
	coord_este, coord_norte, codigo_epsg`
