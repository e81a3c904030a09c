package adapter

// HistorySchema describes the fisiatric clinical history document. The
// backend returns it as snake_case top-level sections holding JSON-encoded
// objects, and accepts it back as a camelCase hc_fisiatric tree; both shapes
// are declared here per field.
//
// The anamnesis and physical-exam sections are write-only: the backend read
// shape exposes them only through the narrative, never as structured fields.
var HistorySchema = GroupSchema{
	// Evaluacion y consulta
	{Ext: "derivados-por", Read: []string{"evaluacion_consulta", "derivadosPor"}, Write: []string{"evaluacionConsulta", "derivadosPor"}},
	{Ext: "medicacion-actual", Read: []string{"evaluacion_consulta", "medicacionActual"}, Write: []string{"evaluacionConsulta", "medicacionActual"}},
	{Ext: "antecedentes-cuadro", Read: []string{"evaluacion_consulta", "antecedentesCuadro"}, Write: []string{"evaluacionConsulta", "antecedentesCuadro"}},
	{Ext: "estudios-realizados", Read: []string{"evaluacion_consulta", "estudiosRealizados"}, Write: []string{"evaluacionConsulta", "estudiosRealizados"}},

	// Antecedentes
	{Ext: "antecedentes-hereditarios", Read: []string{"antecedentes", "hereditarios"}, Write: []string{"antecedentes", "hereditarios"}},
	{Ext: "antecedentes-patologicos", Read: []string{"antecedentes", "patologicos"}, Write: []string{"antecedentes", "patologicos"}},
	{Ext: "antecedentes-quirurgicos", Read: []string{"antecedentes", "quirurgicos"}, Write: []string{"antecedentes", "quirurgicos"}},
	{Ext: "antecedentes-metabolicos", Read: []string{"antecedentes", "metabolicos"}, Write: []string{"antecedentes", "metabolicos"}},
	{Ext: "antecedentes-inmunologicos", Read: []string{"antecedentes", "inmunologicos"}, Write: []string{"antecedentes", "inmunologicos"}},
	// The backend also keeps a copy of the presenting-problem history inside
	// antecedentes on write.
	{Ext: "antecedentes-cuadro", Write: []string{"antecedentes", "cuadro"}},

	// Fisiologicos, nested inside antecedentes
	{Ext: "fisiologicos-dormir", Read: []string{"antecedentes", "fisiologico", "dormir"}, Write: []string{"antecedentes", "fisiologico", "dormir"}},
	{Ext: "fisiologicos-alimentacion", Read: []string{"antecedentes", "fisiologico", "alimentacion"}, Write: []string{"antecedentes", "fisiologico", "alimentacion"}},
	{Ext: "fisiologicos-catarsis", Read: []string{"antecedentes", "fisiologico", "catarsis"}, Write: []string{"antecedentes", "fisiologico", "catarsis"}},
	{Ext: "fisiologicos-diuresis", Read: []string{"antecedentes", "fisiologico", "diuresis"}, Write: []string{"antecedentes", "fisiologico", "diuresis"}},
	{Ext: "fisiologicos-periodo-menstrual", Read: []string{"antecedentes", "fisiologico", "periodoMenstrual"}, Write: []string{"antecedentes", "fisiologico", "periodoMenstrual"}},
	{Ext: "fisiologicos-sexualidad", Read: []string{"antecedentes", "fisiologico", "sexualidad"}, Write: []string{"antecedentes", "fisiologico", "sexualidad"}},

	// Anamnesis sistemica
	{Ext: "anamnesis-comunicacion", Write: []string{"anamnesisSistemica", "comunicacion"}},
	{Ext: "anamnesis-motricidad", Write: []string{"anamnesisSistemica", "motricidad"}},
	{Ext: "anamnesis-vida-diaria", Write: []string{"anamnesisSistemica", "vidaDiaria"}},

	// Examen fisico: general
	{Ext: "examen-actitud", Write: []string{"examenFisico", "general", "actitud"}},
	{Ext: "examen-comunicacion-codigos", Write: []string{"examenFisico", "general", "comunicacionCodigos"}},
	{Ext: "examen-piel-faneras", Write: []string{"examenFisico", "general", "pielFaneras"}},

	// Examen fisico: cabeza y sentidos
	{Ext: "examen-cabeza", Write: []string{"examenFisico", "cabezaSentidos", "cabeza"}},
	{Ext: "examen-ojos", Write: []string{"examenFisico", "cabezaSentidos", "ojos"}},
	{Ext: "examen-movimientos-anormales", Write: []string{"examenFisico", "cabezaSentidos", "movimientosAnormales"}},
	{Ext: "examen-estrabismo", Write: []string{"examenFisico", "cabezaSentidos", "estrabismo"}},
	{Ext: "examen-orejas", Write: []string{"examenFisico", "cabezaSentidos", "orejas"}},
	{Ext: "examen-audicion", Write: []string{"examenFisico", "cabezaSentidos", "audicion"}},
	{Ext: "examen-boca", Write: []string{"examenFisico", "cabezaSentidos", "boca"}},
	{Ext: "examen-labios", Write: []string{"examenFisico", "cabezaSentidos", "labios"}},
	{Ext: "examen-lengua", Write: []string{"examenFisico", "cabezaSentidos", "lengua"}},
	{Ext: "examen-denticion", Write: []string{"examenFisico", "cabezaSentidos", "denticion"}},
	{Ext: "examen-mordida", Write: []string{"examenFisico", "cabezaSentidos", "mordida"}},
	{Ext: "examen-paladar-velo", Write: []string{"examenFisico", "cabezaSentidos", "paladarVelo"}},
	{Ext: "examen-maxilares", Write: []string{"examenFisico", "cabezaSentidos", "maxilares"}},

	// Examen fisico: tronco y extremidades
	{Ext: "examen-torax", Write: []string{"examenFisico", "troncoExtremidades", "torax"}},
	{Ext: "examen-abdomen", Write: []string{"examenFisico", "troncoExtremidades", "abdomen"}},
	{Ext: "examen-columna-vertebral", Write: []string{"examenFisico", "troncoExtremidades", "columnaVertebral"}},
	{Ext: "examen-pelvis", Write: []string{"examenFisico", "troncoExtremidades", "pelvis"}},
	{Ext: "examen-caderas", Write: []string{"examenFisico", "troncoExtremidades", "caderas"}},
	{Ext: "examen-mmii", Write: []string{"examenFisico", "troncoExtremidades", "mmii"}},
	{Ext: "examen-pies", Write: []string{"examenFisico", "troncoExtremidades", "pies"}},
	{Ext: "examen-mmss", Write: []string{"examenFisico", "troncoExtremidades", "mmss"}},
	{Ext: "examen-manos", Write: []string{"examenFisico", "troncoExtremidades", "manos"}},
	{Ext: "examen-lateralidad", Write: []string{"examenFisico", "troncoExtremidades", "lateralidad"}},

	// Examen fisico: sistemas y actividades
	{Ext: "examen-ap-respiratorio", Write: []string{"examenFisico", "sistemaActividades", "apRespiratorio"}},
	{Ext: "examen-ap-cardiovascular", Write: []string{"examenFisico", "sistemaActividades", "apCardiovascular"}},
	{Ext: "examen-ap-digestivo", Write: []string{"examenFisico", "sistemaActividades", "apDigestivo"}},
	{Ext: "examen-actividad-refleja", Write: []string{"examenFisico", "sistemaActividades", "actividadRefleja"}},
	{Ext: "examen-actividad-sensoperceptual", Write: []string{"examenFisico", "sistemaActividades", "actividadSensoperceptual"}},
	{Ext: "examen-reacciones-posturales", Write: []string{"examenFisico", "sistemaActividades", "reaccionesPosturales"}},
	{Ext: "examen-desplazamiento-marcha", Write: []string{"examenFisico", "sistemaActividades", "desplazamientoMarcha"}},
	{Ext: "examen-etapa-desarrollo", Write: []string{"examenFisico", "sistemaActividades", "etapaDesarrollo"}},

	// Diagnostico funcional
	{Ext: "diagnostico-funcional", Read: []string{"diagnostico_funcional", "diagnosticoFuncional"}, Write: []string{"diagnosticoFuncional", "diagnosticoFuncional"}},
	{Ext: "conducta-objetivos", Read: []string{"diagnostico_funcional", "conductaSeguir"}, Write: []string{"diagnosticoFuncional", "conductaSeguir"}},
	{Ext: "objetivos-familia", Read: []string{"diagnostico_funcional", "objetivosFamilia"}, Write: []string{"diagnosticoFuncional", "objetivosFamilia"}},
}
