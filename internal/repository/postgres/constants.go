package postgres

// SRID4326 - WGS84, the reference system of every stored geometry
const SRID4326 = 4326
